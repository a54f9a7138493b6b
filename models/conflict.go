package models

// ConflictEntry is one row in the firm's known-conflicts table.
type ConflictEntry struct {
	ClientName    string `json:"clientName" bson:"clientName"`
	OpposingParty string `json:"opposingParty" bson:"opposingParty"`
	Reason        string `json:"reason" bson:"reason"`
}
