package models

// CameraSummary is the flattened view of a bootstrap camera used for table and
// JSON output.
type CameraSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	State     string `json:"state"`
	Host      string `json:"host"`
	Connected bool   `json:"isConnected"`
	Recording bool   `json:"isRecording"`
	Dark      bool   `json:"isDark"`
}

// SummarizeCamera reads the well-known fields of a camera record. Missing
// fields are left at their zero value.
func SummarizeCamera(r Record) CameraSummary {
	var s CameraSummary
	s.ID, _ = r.String("id")
	s.Name, _ = r.String("name")
	s.Type, _ = r.String("type")
	s.State, _ = r.String("state")
	s.Host, _ = r.String("host")
	s.Connected, _ = r.Bool("isConnected")
	s.Recording, _ = r.Bool("isRecording")
	s.Dark, _ = r.Bool("isDark")
	return s
}
