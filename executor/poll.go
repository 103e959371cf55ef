package executor

import (
	"context"
	"strings"
	"time"
)

// Status summarizes one Verify call's output.
type Status struct {
	InProgress bool
	Complete   bool
	Raw        string
}

// parseStatus looks for the phrases kafka-reassign-partitions.sh
// --verify prints per partition. "is in progress" marks an unfinished
// move; anything else (typically "is completed successfully") marks a
// partition done. A Status is Complete only once every partition line
// reports completion.
func parseStatus(raw string) Status {
	lines := strings.Split(raw, "\n")
	var total, done int
	for _, l := range lines {
		if !strings.Contains(l, "Reassignment of partition") {
			continue
		}
		total++
		if strings.Contains(l, "is in progress") {
			continue
		}
		done++
	}
	return Status{
		InProgress: total > 0 && done < total,
		Complete:   total > 0 && done == total,
		Raw:        raw,
	}
}

// Poll calls Verify on an interval until the reassignment completes,
// ctx is cancelled, or verify itself errors. It returns the final
// Status. This generalizes autothrottle's `for { ...; time.Sleep(...) }`
// interval loop into a context-cancellable ticker, since this planner
// (unlike autothrottle) runs one reassignment to completion rather
// than forever.
func Poll(ctx context.Context, scriptPath, zkAddr, planPath string, interval time.Duration) (Status, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		raw, err := Verify(ctx, scriptPath, zkAddr, planPath)
		if err != nil {
			return Status{}, err
		}
		st := parseStatus(raw)
		if st.Complete {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ticker.C:
		}
	}
}
