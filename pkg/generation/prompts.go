package generation

import "fmt"

const stage1PromptTemplate = `You are an expert educational content writer. Fill the text content for a specific section in the given HTML document.

Current complete HTML document:
` + "```html\n%s\n```" + `

Target Section ID: %[2]s

Text content description:
%[3]s

Task:
1. Find the <section> tag with id="%[2]s"
2. Fill educational text content inside its <div class="text-content">
3. Use HTML formatting:
   - Use <p> tags for paragraphs
   - Use <strong> tags for emphasis
   - Use KaTeX syntax for math: $\pi$, $$E=mc^2$$
4. Keep all other sections unchanged
5. Maintain the complete HTML document structure

Return the complete HTML document with the text content filled in for section %[2]s.`

const stage2PromptTemplate = `You are an expert at creating interactive educational visualizations. Add interactive content for a specific section in the given HTML document.

Current complete HTML document (with text content already filled):
` + "```html\n%s\n```" + `

Target Section ID: %[2]s

Interactive content description:
%[3]s

Task:
1. Find the <section> tag with id="%[2]s"
2. Build the described interactive element inside its <div class="interactive-content">
3. Use plain HTML, CSS and JavaScript; D3.js and Chart.js are already loaded
4. Scope element ids and JavaScript variables to this section to avoid collisions
5. Keep all other sections unchanged
6. Maintain the complete HTML document structure

Return the complete HTML document with the interactive content added for section %[2]s.`

func stage1Prompt(currentHTML, scopeID, textDescription string) string {
	return fmt.Sprintf(stage1PromptTemplate, currentHTML, scopeID, textDescription)
}

func stage2Prompt(currentHTML, scopeID, interactionDescription string) string {
	return fmt.Sprintf(stage2PromptTemplate, currentHTML, scopeID, interactionDescription)
}
