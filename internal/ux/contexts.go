package ux

// ContextInfo describes a workspace mode for display.
type ContextInfo struct {
	Context     Context
	Label       string
	Description string
	// Tools are catalog ids suggested in this mode.
	Tools []string
}

var contextInfo = map[Context]ContextInfo{
	ContextWriting: {
		Context:     ContextWriting,
		Label:       "Writing Mode",
		Description: "Distraction-free drafting with proofreading close at hand",
		Tools:       []string{"proofreader", "summarizer", "humanizer", "title_generator"},
	},
	ContextCoding: {
		Context:     ContextCoding,
		Label:       "Code Mode",
		Description: "Explain, generate and review code",
		Tools:       []string{"code_explainer", "code_generator", "code_reviewer", "virtual_debugger"},
	},
	ContextBrainstorming: {
		Context:     ContextBrainstorming,
		Label:       "Infinite Canvas",
		Description: "Collect and connect ideas freely",
		Tools:       []string{"brainstorm", "product_ideator", "storyteller", "character_creator"},
	},
	ContextResearching: {
		Context:     ContextResearching,
		Label:       "Research Mode",
		Description: "Find sources and organize references",
		Tools:       []string{"book_researcher", "citation_formatter", "glossary_creator", "argument_analyzer"},
	},
	ContextDefault: {
		Context:     ContextDefault,
		Label:       "Nexus AI",
		Description: "Dashboard with projects, chat and the tool catalog",
		Tools:       []string{"summarizer", "brainstorm", "code_explainer"},
	},
}

// Info returns the display metadata for c. Unknown contexts describe the
// default mode.
func (c Context) Info() ContextInfo {
	info, ok := contextInfo[c]
	if !ok {
		info = contextInfo[ContextDefault]
	}
	info.Tools = append([]string(nil), info.Tools...)
	return info
}
