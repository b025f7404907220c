package domain

// Voting is one roll-call result. The four tallies are mutually exclusive.
type Voting struct {
	ID               int64     `json:"id,omitempty"`
	TermNumber       int       `json:"term_number,omitempty"`
	SittingNumber    int       `json:"sitting_number,omitempty"`
	VotingNumber     int       `json:"voting_number,omitempty"`
	ProcessID        string    `json:"process_id,omitempty"`
	Topic            string    `json:"topic,omitempty"`
	Date             Timestamp `json:"date,omitempty"`
	Yes              int       `json:"yes_count"`
	No               int       `json:"no_count"`
	Abstain          int       `json:"abstain_count"`
	NotParticipating int       `json:"not_participating"`
}
