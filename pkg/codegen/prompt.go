package codegen

import "strings"

// Template identifies which prompt shape a turn uses.
type Template string

const (
	TemplateGenerate Template = "generate"
	TemplateModify   Template = "modify"
)

const (
	placeholderUserMessage = "{userMessage}"
	placeholderMarkup      = "{currentJSX}"
	placeholderStylesheet  = "{currentCSS}"
)

const generateTemplate = `You are an expert React developer. Create a React component based on the user's request.

Requirements:
- Use modern React with hooks
- Include proper TypeScript types if needed
- Use Tailwind CSS for styling
- Make the component responsive and accessible
- Add hover effects and animations where appropriate
- Use semantic HTML elements
- Include proper ARIA attributes for accessibility

User request: {userMessage}

Please provide:
1. A complete React JSX component
2. Any necessary CSS (preferably Tailwind classes, but custom CSS if needed)
3. Brief explanation of the component's features

Format your response as:
JSX:
` + "```jsx" + `
[Your JSX code here]
` + "```" + `

CSS:
` + "```css" + `
[Your CSS code here]
` + "```" + `

Explanation:
[Brief explanation of what the component does]`

const modifyTemplate = `You are an expert React developer. Modify the existing component based on the user's request.

Current component:
JSX:
` + "```jsx" + `
{currentJSX}
` + "```" + `

CSS:
` + "```css" + `
{currentCSS}
` + "```" + `

User's modification request: {userMessage}

Please provide the updated component with the requested changes. Format your response as:
JSX:
` + "```jsx" + `
[Updated JSX code]
` + "```" + `

CSS:
` + "```css" + `
[Updated CSS code]
` + "```" + `

Explanation:
[Brief explanation of the changes made]`

// SelectTemplate picks the modification template when the session already holds
// code in either field.
func SelectTemplate(current *Artifact) Template {
	if current.IsEmpty() {
		return TemplateGenerate
	}
	return TemplateModify
}

// Compose builds the outbound prompt for a turn. Substitution is a single literal
// pass: user text and stored code are embedded as-is and placeholders that appear
// inside them are not expanded again.
//
// Nothing is escaped, so a request can steer the model past the instructions
// around it. That is a known prompt-injection exposure.
func Compose(current *Artifact, userMessage string) string {
	if SelectTemplate(current) == TemplateGenerate {
		return strings.NewReplacer(placeholderUserMessage, userMessage).Replace(generateTemplate)
	}

	return strings.NewReplacer(
		placeholderUserMessage, userMessage,
		placeholderMarkup, current.Markup,
		placeholderStylesheet, current.Stylesheet,
	).Replace(modifyTemplate)
}
