package recommend

import (
	"encoding/json"
	"strings"

	"ballot/internal/research"
)

// field describes one labeled prompt input or model output.
type field struct {
	Key         string
	Label       string
	Description string
}

// analystRole is the system instruction shared by both stages.
const analystRole = "You are a nonpartisan election analyst. Base every judgment on the candidate research and voter preferences you are given, and answer with the requested JSON object only."

// signature describes the instruction and fields of one stage.
type signature struct {
	Stage       Stage
	System      string
	Instruction string
	Inputs      []field
	Outputs     []field
}

var rationaleField = field{
	Key:         "rationale",
	Label:       "Rationale",
	Description: "Think step by step in order to produce the remaining fields.",
}

var issueAnalysisSignature = signature{
	Stage:       StageIssueAnalysis,
	System:      analystRole,
	Instruction: "Identify the key issues in an election race relative to a voter's preferences.",
	Inputs: []field{
		{Key: "race", Label: "Race", Description: "The specific election race being analyzed"},
		{Key: "candidates", Label: "Candidates", Description: "List of candidates and their information"},
		{Key: "voter_preferences", Label: "Voter Preferences", Description: "The voter's stated preferences and priorities"},
	},
	Outputs: []field{
		{Key: "key_issues", Label: "Key Issues", Description: "List of the top 3 key issues for this race"},
		{Key: "issue_analysis", Label: "Issue Analysis", Description: "Detailed analysis of how the issues relate to voter preferences"},
	},
}

var recommendationSignature = signature{
	Stage:       StageRecommendation,
	System:      analystRole + " Recommend exactly one of the listed candidates by name.",
	Instruction: "Recommend the candidate that best fits the voter's preferences.",
	Inputs: []field{
		{Key: "candidates", Label: "Candidates", Description: "List of candidates and their information"},
		{Key: "preferences", Label: "Preferences", Description: "The voter's stated preferences"},
		{Key: "key_issues", Label: "Key Issues", Description: "Key issues identified for this race"},
		{Key: "issue_analysis", Label: "Issue Analysis", Description: "Analysis of the issues"},
	},
	Outputs: []field{
		{Key: "recommendation", Label: "Recommendation", Description: "The recommended candidate"},
		{Key: "reasoning", Label: "Reasoning", Description: "Detailed reasoning for the recommendation"},
	},
}

// render builds the prompt text for values keyed by input field.
func (s signature) render(values map[string]string) string {
	var b strings.Builder
	b.WriteString(s.Instruction)
	b.WriteString("\n\n---\n\nFollow the following format.\n\n")
	for _, in := range s.Inputs {
		b.WriteString(in.Label + ": " + in.Description + "\n")
	}
	b.WriteString("\nRespond with a single JSON object with these keys, in order:\n")
	for _, out := range s.outputs() {
		b.WriteString(`"` + out.Key + `": ` + out.Description + "\n")
	}
	b.WriteString("\n---\n\n")
	for _, in := range s.Inputs {
		b.WriteString(in.Label + ": " + strings.TrimSpace(values[in.Key]) + "\n\n")
	}
	b.WriteString("JSON:")
	return b.String()
}

// outputs returns the output fields led by the rationale.
func (s signature) outputs() []field {
	return append([]field{rationaleField}, s.Outputs...)
}

func (s signature) outputKeys() []string {
	keys := make([]string, 0, len(s.Outputs))
	for _, out := range s.Outputs {
		keys = append(keys, out.Key)
	}
	return keys
}

// formatCandidates renders candidates as an indented JSON list.
func formatCandidates(list []research.Candidate) string {
	if list == nil {
		list = []research.Candidate{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
