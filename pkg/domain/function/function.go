package function

// Function describes one AI-assisted capability the engine guards.
type Function struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Platforms   []string `json:"platforms,omitempty"`
}

const (
	IOCExtraction = "ioc_extraction"
	TTPExtraction = "ttp_extraction"
	ReportSummary = "report_summary"
	HuntQuery     = "hunt_query"
	ThreatChat    = "threat_chat"
)

var huntPlatforms = []string{"splunk", "sentinel", "elastic", "qradar", "chronicle"}

var catalog = []Function{
	{
		ID:          IOCExtraction,
		Name:        "IOC Extraction",
		Description: "Extracts indicators of compromise from threat reports and raw artifacts.",
	},
	{
		ID:          TTPExtraction,
		Name:        "TTP Extraction",
		Description: "Maps report content to adversary tactics, techniques and procedures.",
	},
	{
		ID:          ReportSummary,
		Name:        "Report Summarization",
		Description: "Condenses long-form threat intelligence into analyst summaries.",
	},
	{
		ID:          HuntQuery,
		Name:        "Hunt Query Generation",
		Description: "Generates platform-native hunting queries from analyst intent.",
		Platforms:   huntPlatforms,
	},
	{
		ID:          ThreatChat,
		Name:        "Threat Analyst Chat",
		Description: "Conversational assistant over the organization's threat context.",
	},
}

func All() []Function {
	out := make([]Function, len(catalog))
	copy(out, catalog)
	return out
}

func Get(id string) (*Function, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			fn := catalog[i]
			return &fn, true
		}
	}
	return nil, false
}

func Exists(id string) bool {
	_, ok := Get(id)
	return ok
}

// SupportsPlatform reports whether the function accepts the platform qualifier.
// Functions without a platform dimension accept only the empty qualifier.
func SupportsPlatform(id, platform string) bool {
	if platform == "" {
		return true
	}
	fn, ok := Get(id)
	if !ok {
		return false
	}
	for _, p := range fn.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
