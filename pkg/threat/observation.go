package threat

import "fmt"

// SourceKind identifies the class of signal source that produced an observation.
type SourceKind int

const (
	KindNetwork SourceKind = iota
	KindLogin
	KindFilesystem
	KindDataAccess
)

// String returns the lowercase name of the source kind.
func (k SourceKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindLogin:
		return "login"
	case KindFilesystem:
		return "filesystem"
	case KindDataAccess:
		return "data_access"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Observation is a single raw signal emitted by a source. It is transient:
// once classified and responded to it is folded into a SecurityEvent and
// not retained on its own.
type Observation struct {
	Kind        SourceKind
	Identifier  string // network address or resource name
	Subtype     string // free-form classification tag
	Confidence  float64
	EventType   string
	Description string

	// Forced short-circuits the confidence classifier. It is set by
	// escalation paths such as brute-force detection, which pin the
	// level regardless of the generic cutoffs.
	Forced *Level
}

// Validate checks the observation against its construction contract.
// A failure here is a programming error in the producing source, not a
// transient condition.
func (o *Observation) Validate() error {
	if o.Identifier == "" {
		return fmt.Errorf("observation missing source identifier")
	}
	if o.EventType == "" {
		return fmt.Errorf("observation missing event type")
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("observation confidence %.3f outside [0,1]", o.Confidence)
	}
	if o.Forced != nil && !o.Forced.Valid() {
		return fmt.Errorf("observation forced level %d is not a valid threat level", int(*o.Forced))
	}
	return nil
}

// Level resolves the threat level for this observation, honouring a
// forced escalation level when present.
func (o *Observation) Level() Level {
	if o.Forced != nil {
		return *o.Forced
	}
	return Classify(o.Confidence)
}
