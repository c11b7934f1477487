package domain

// PatientRecord is a patient returned by the patient directory.
type PatientRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// PatientResults is one delivered lookup.
type PatientResults struct {
	// Query is the text that was looked up.
	Query string

	// Patients are the matches, in directory order.
	Patients []PatientRecord

	// Seq increases with every dispatched lookup. Results can complete
	// out of order; subscribers that only want the newest compare Seq.
	Seq uint64
}
