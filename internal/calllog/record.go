package calllog

// Info holds the identifying metadata from a recording's Info line. Date is
// the raw timestamp string from the log block (YYYY/MM/DD HH:MM:SS); it is
// kept verbatim so the store stays byte-faithful to the source.
type Info struct {
	FileName   string `json:"FileName"`
	ServerName string `json:"ServerName"`
	Card       string `json:"Card"`
	Channel    string `json:"Channel"`
	Date       string `json:"Date"`
}

// Number holds the dialed or received phone number.
type Number struct {
	Number string `json:"Number"`
}

// CallWindow holds the call session state reported by the recorder.
type CallWindow struct {
	Status   string `json:"Status"`
	CallType string `json:"Call_Type"`
	Color    string `json:"Color"`
}

// Record is the structured result of parsing one recording's log block,
// keyed by the source file's name. Sections missing from the block stay nil;
// an absent section never invalidates the record.
type Record struct {
	FileName   string      `json:"FileName"`
	Info       *Info       `json:"Info,omitempty"`
	Number     *Number     `json:"Number,omitempty"`
	CallWindow *CallWindow `json:"CallWindow,omitempty"`
}
