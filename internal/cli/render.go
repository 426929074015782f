package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/usecase"
)

func scoreColor(score int) *color.Color {
	switch {
	case score >= 80:
		return color.New(color.FgGreen, color.Bold)
	case score >= 50:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func renderOutcome(w io.Writer, out usecase.Outcome) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	faint := color.New(color.Faint)

	res := out.Result
	bold.Fprint(w, "Score: ")
	scoreColor(res.Score).Fprintf(w, "%d/100", res.Score)
	fmt.Fprintf(w, " (%d/%d points)\n", res.TotalPoints, res.MaxPoints)

	switch {
	case out.Fallback:
		color.New(color.FgYellow).Fprintln(w, "rubric unavailable, scored with the default rubric")
	case out.Rubric.IsDefault:
		faint.Fprintln(w, "default rubric")
	case out.Rubric.IsOrganization:
		faint.Fprintf(w, "organization rubric (%s)\n", out.Rubric.Scope.ID)
	}

	for _, d := range res.Details {
		mark := red.Sprint("✘")
		if d.IsValid {
			mark = green.Sprint("✔")
		}
		fmt.Fprintf(w, "%s %s %-28s %3d/%-3d %s\n", mark, d.Icon, d.Label, d.Points, d.MaxPoints, faint.Sprint(d.Detail))
	}
}

func renderCriteria(w io.Writer, criteria []domain.Criterion) {
	faint := color.New(color.Faint)
	for _, c := range criteria {
		state := color.New(color.FgGreen).Sprint("on ")
		if !c.Enabled {
			state = color.New(color.FgRed).Sprint("off")
		}
		fmt.Fprintf(w, "%s %-18s %-28s %3d pts %s\n", state, c.Key, c.Label, c.MaxPoints, faint.Sprint(c.CheckType))
	}
}
