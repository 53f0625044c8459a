package main

import (
	"fmt"
	"io"

	"github.com/padraicbc/footyvalue/classifier"
	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/prediction"
)

const kickoffLayout = "2006-01-02 15:04"

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

func printReport(out io.Writer, r classifier.Report) {
	fmt.Fprintf(out, "trained on %d matches (holdout %d)\n", r.Examples, r.HoldoutSize)
	if r.LowData {
		fmt.Fprintf(out, "warning: fewer than %d matches, treat predictions with care\n", classifier.MinExamples)
	}
	if r.HoldoutSize == 0 {
		return
	}
	fmt.Fprintf(out, "holdout accuracy %s\n", pct(r.Accuracy))

	w := newTable(out)
	fmt.Fprintln(w, "OUTCOME\tPRECISION\tRECALL\tSUPPORT")
	for _, o := range models.Outcomes {
		m := r.Classes[o]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", o, pct(m.Precision), pct(m.Recall), m.Support)
	}
	_ = w.Flush()
}

func printPrediction(out io.Writer, p prediction.MatchPrediction) {
	m := p.Match
	fmt.Fprintf(out, "%s v %s  (%s, %s)\n\n", m.HomeTeam, m.AwayTeam, m.League, m.Kickoff.Format(kickoffLayout))

	odds := m.Odds.Prices()
	probs := [3]float64{p.Probabilities.Home, p.Probabilities.Draw, p.Probabilities.Away}
	values := [3]float64{p.Values.Home, p.Values.Draw, p.Values.Away}

	w := newTable(out)
	fmt.Fprintln(w, "OUTCOME\tPROBABILITY\tODDS\tVALUE")
	for _, o := range models.Outcomes {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%+.1f%%\n", o, pct(probs[o]), odds[o], values[o]*100)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\npredicted: %s\n", p.PredictedLabel)
	fmt.Fprintf(out, "best bet:  %s (%s value)\n", p.RecommendedBet, p.ValueBand)
	fmt.Fprintf(out, "confidence: %.2f (%s)\n", p.Confidence, p.ConfidenceBand)
	if !p.Recorded {
		fmt.Fprintln(out, "warning: prediction was not recorded")
	}
}

func printPicks(out io.Writer, picks []prediction.MatchPrediction) {
	if len(picks) == 0 {
		fmt.Fprintln(out, "no value picks")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "KICKOFF\tMATCH\tLEAGUE\tBET\tODDS\tVALUE\tCONFIDENCE")
	for _, p := range picks {
		m := p.Match
		fmt.Fprintf(w, "%s\t%s v %s\t%s\t%s\t%.2f\t%+.1f%% %s\t%.2f %s\n",
			m.Kickoff.Format(kickoffLayout), m.HomeTeam, m.AwayTeam, m.League,
			p.RecommendedBet, m.Odds.Prices()[p.Recommended],
			p.ExpectedValue*100, p.ValueBand, p.Confidence, p.ConfidenceBand)
	}
	_ = w.Flush()
}

func printPerformance(out io.Writer, perf prediction.Performance) {
	fmt.Fprintf(out, "last %d days\n", perf.Days)
	if perf.Total == 0 {
		fmt.Fprintln(out, "no reconciled predictions")
		return
	}
	w := newTable(out)
	fmt.Fprintf(w, "predictions\t%d\n", perf.Total)
	fmt.Fprintf(w, "correct\t%d\n", perf.Correct)
	fmt.Fprintf(w, "accuracy\t%s\n", pct(perf.Accuracy))
	fmt.Fprintf(w, "ROI\t%.1f%%\n", perf.ROI)
	_ = w.Flush()
}

func printHistory(out io.Writer, entries []prediction.HistoryEntry) {
	w := newTable(out)
	fmt.Fprintln(w, "PREDICTED AT\tMATCH\tSCORE\tPICK\tH\tD\tA\tRESULT")
	for _, e := range entries {
		score := "-"
		if e.HomeGoals != nil && e.AwayGoals != nil {
			score = fmt.Sprintf("%d-%d", *e.HomeGoals, *e.AwayGoals)
		}
		result := "pending"
		if e.Correct != nil {
			result = "wrong"
			if *e.Correct {
				result = "correct"
			}
		}
		fmt.Fprintf(w, "%s\t%s v %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.PredictedAt.Format(kickoffLayout), e.HomeTeam, e.AwayTeam, score, e.PredictedLabel,
			pct(e.ProbHome), pct(e.ProbDraw), pct(e.ProbAway), result)
	}
	_ = w.Flush()
}
