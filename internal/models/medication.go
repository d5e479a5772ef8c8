package models

// Medication is a cabinet entry. Time is a free-text schedule hint and is
// never machine-parsed.
type Medication struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Dosage  string `json:"dosage"`
	Time    string `json:"time"`
	Purpose string `json:"purpose,omitempty"`
}

// MedicationNames projects the cabinet onto its drug names, preserving order.
func MedicationNames(meds []Medication) []string {
	names := make([]string, 0, len(meds))
	for _, m := range meds {
		names = append(names, m.Name)
	}
	return names
}
