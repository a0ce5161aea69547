package generate

import (
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/missionview/internal/llm"
)

// DefaultSystemPrompt is used when no prompt file is configured. It asks for
// the markdown shape the viewer is built around: level 1 and 2 headings for
// navigation and "- [ ]" lines for trackable tasks.
const DefaultSystemPrompt = `You are a senior engineering mentor preparing an onboarding mission plan.

You receive the documentation of a software project and the profile of the intern or new team
member who will join it. Write a practical, personalised mission plan in GitHub-flavoured markdown.

Structure:
- Start with a single "# " title naming the person and the project.
- Use "## " headings for the main sections: Project Overview, Skills Assessment, Learning Path,
  Weekly Missions, Deliverables, Resources.
- Use "### " headings only for sub-sections inside a week or a deliverable.
- Every concrete task must be a checklist line of the exact form "- [ ] task description".
- Put commands, configuration and code in fenced code blocks with a language tag.

Ground every recommendation in the project documentation and the person's actual experience.
Do not invent technologies the project does not use. Output only the markdown document.`

// LoadPrompt reads the system prompt from path, or returns the built-in
// prompt when path is empty.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return DefaultSystemPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return prompt, nil
}

// Messages builds the conversation sent to the model.
func Messages(system, projectText, profileText string) []llm.Message {
	var user strings.Builder
	user.WriteString("PROJECT DOCUMENTATION:\n")
	user.WriteString(projectText)
	user.WriteString("\n\nCANDIDATE PROFILE:\n")
	user.WriteString(profileText)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user.String()},
	}
}
