package wizard

import (
	"github.com/pow3r/cashout/pkg/cashout/domain"
	"github.com/pow3r/cashout/pkg/cashout/models"
)

// Progress is the display summary of a post flow.
type Progress struct {
	Total        int
	Completed    int
	Skipped      int
	Errored      int
	Percent      int
	CurrentStep  string
	CurrentTitle string
	Status       models.ProgressStatus
}

func ProgressOf(f *domain.PostFlow) Progress {
	p := Progress{Total: len(f.Steps), Status: f.Status, CurrentStep: f.CurrentStep}
	for _, s := range f.Steps {
		switch s.Status {
		case models.StepCompleted:
			p.Completed++
		case models.StepSkipped:
			p.Skipped++
		case models.StepError:
			p.Errored++
		}
		if s.Key == f.CurrentStep {
			p.CurrentTitle = s.Title
		}
	}
	if p.Total > 0 {
		p.Percent = (p.Completed + p.Skipped) * 100 / p.Total
	}
	return p
}

func (p Progress) Api() models.ProgressApiResponse {
	return models.ProgressApiResponse{
		Total:       p.Total,
		Completed:   p.Completed,
		Skipped:     p.Skipped,
		Errored:     p.Errored,
		Percent:     p.Percent,
		CurrentStep: p.CurrentStep,
		Status:      p.Status,
	}
}
