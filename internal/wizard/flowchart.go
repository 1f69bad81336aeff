package wizard

import (
	"fmt"
	"strings"

	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// FlowChart renders the wizard as a mermaid flowchart. When f is non-nil the
// nodes are coloured by the flow's step statuses.
func FlowChart(f *domain.PostFlow) string {
	var sb strings.Builder

	errorClass := "fill:#FF6B6B,stroke:#C53030,stroke-width:2px,color:#fff,rx:10,ry:10;"
	doneClass := "fill:#4ECDC4,stroke:#1F9C8C,stroke-width:2px,color:#fff,rx:10,ry:10;"
	activeClass := "fill:#5568FE,stroke:#3346FF,stroke-width:2px,color:#fff,rx:10,ry:10;"
	skippedClass := "fill:#FFD93D,stroke:#E6C200,stroke-width:2px,color:#333,stroke-dasharray: 4 2,rx:10,ry:10;"
	pendingClass := "fill:#F0F4F8,stroke:#B0C4DE,stroke-width:1px,color:#333,rx:10,ry:10;"

	sb.WriteString("flowchart LR\n")
	for _, d := range definitions {
		sb.WriteString(fmt.Sprintf("    %s[\"%d. %s\"]\n", d.Key, d.Order, d.Title))
	}
	for i := 0; i+1 < len(definitions); i++ {
		from, to := definitions[i], definitions[i+1]
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", from.Key, to.Key))
	}
	// optional steps can be bypassed
	for i, d := range definitions {
		if d.Optional && i > 0 && i+1 < len(definitions) {
			sb.WriteString(fmt.Sprintf("    %s -.->|skip %s| %s\n", definitions[i-1].Key, d.Key, definitions[i+1].Key))
		}
	}

	sb.WriteString(fmt.Sprintf("    classDef errorClass %s\n", errorClass))
	sb.WriteString(fmt.Sprintf("    classDef doneClass %s\n", doneClass))
	sb.WriteString(fmt.Sprintf("    classDef activeClass %s\n", activeClass))
	sb.WriteString(fmt.Sprintf("    classDef skippedClass %s\n", skippedClass))
	sb.WriteString(fmt.Sprintf("    classDef pendingClass %s\n", pendingClass))

	for _, d := range definitions {
		status := models.StepPending
		if f != nil {
			if s := f.Step(d.Key); s != nil {
				status = s.Status
			}
		}
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", d.Key, chartClass(status)))
	}
	return sb.String()
}

func chartClass(status models.StepStatus) string {
	switch status {
	case models.StepInProgress:
		return "activeClass"
	case models.StepCompleted:
		return "doneClass"
	case models.StepSkipped:
		return "skippedClass"
	case models.StepError:
		return "errorClass"
	default:
		return "pendingClass"
	}
}
