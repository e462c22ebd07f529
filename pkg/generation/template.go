package generation

import (
	"fmt"
	"os"
	"strings"

	"github.com/vividoc-ai/vividoc/pkg/htmlcheck"
	"github.com/vividoc-ai/vividoc/pkg/spec"
)

const skeletonShell = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>

    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=Poppins:wght@400;600;700&family=Inter:wght@400;500;600&display=swap" rel="stylesheet">

    <!-- KaTeX for math rendering -->
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css">
    <script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.js"></script>
    <script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/contrib/auto-render.min.js"></script>

    <!-- D3.js and Chart.js for visualizations -->
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>

    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            background-color: #f5f5f5;
        }
        .vividoc-header {
            background: linear-gradient(135deg, #4A90E2 0%%, #7CB3E9 100%%);
            padding: 20px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
            margin-bottom: 40px;
        }
        .header-content {
            max-width: 1200px;
            margin: 0 auto;
            display: flex;
            justify-content: space-between;
            align-items: center;
            gap: 40px;
        }
        .brand-name {
            font-family: 'Poppins', sans-serif;
            font-size: 42px;
            font-weight: 700;
            color: white;
            letter-spacing: -1px;
        }
        .brand-tagline {
            font-size: 15px;
            color: rgba(255, 255, 255, 0.95);
            font-style: italic;
            text-align: right;
        }
        .main-content { max-width: 1200px; margin: 0 auto; padding: 0 20px 40px 20px; }
        h1 {
            font-family: 'Poppins', sans-serif;
            color: #2c3e50;
            margin-bottom: 40px;
            text-align: center;
            font-size: 2.5em;
            font-weight: 600;
        }
        .knowledge-unit {
            background: white;
            border-radius: 8px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .text-content { margin-bottom: 30px; line-height: 1.8; font-size: 18px; }
        .text-content p { margin-bottom: 20px; }
        .interactive-content { margin-top: 20px; }
        .controls { margin: 20px 0; padding: 15px; background: #f8f9fa; border-radius: 4px; }
        .controls input[type="range"] { width: 200px; vertical-align: middle; }
        .controls button {
            padding: 8px 16px;
            background: #4A90E2;
            color: white;
            border: none;
            border-radius: 4px;
            cursor: pointer;
        }
        .visualization { min-height: 300px; margin-top: 20px; }
    </style>
</head>
<body>
    <header class="vividoc-header">
        <div class="header-content">
            <h1 class="brand-name">ViviDoc</h1>
            <p class="brand-tagline">Generate Exploratory Explanations Automatically</p>
        </div>
    </header>

    <div class="main-content">
        <h1>%s</h1>

%s
    </div>

    <script>
        document.addEventListener("DOMContentLoaded", function() {
            renderMathInElement(document.body, {
                delimiters: [
                    {left: "$$", right: "$$", display: true},
                    {left: "$", right: "$", display: false},
                    {left: "\\[", right: "\\]", display: true},
                    {left: "\\(", right: "\\)", display: false}
                ],
                throwOnError: false
            });
        });
    </script>
</body>
</html>
`

// scopeID is the positional slot label for the idx-th unit (1-based).
func scopeID(idx int) string {
	return fmt.Sprintf("ku%d", idx)
}

// writeSkeleton writes the initial document shell with one empty
// knowledge-unit section per spec unit. Stage 1 and Stage 2 fill the
// sections in place.
func writeSkeleton(doc spec.DocumentSpec, path string) error {
	sections := make([]string, 0, len(doc.Units))
	for idx, unit := range doc.Units {
		sections = append(sections, fmt.Sprintf(`    <!-- %s -->
    <section class=%q id=%q>
        <div class="text-content">
            <!-- Stage 1: Text content will be filled here -->
        </div>
        <div class="interactive-content">
            <!-- Stage 2: Interactive content will be filled here -->
        </div>
    </section>`, unit.Summary, htmlcheck.ContainerClass, scopeID(idx+1)))
	}

	content := fmt.Sprintf(skeletonShell, doc.Topic, doc.Topic, strings.Join(sections, "\n\n"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write document skeleton: %w", err)
	}
	return nil
}
