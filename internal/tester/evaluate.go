package tester

import (
	"github.com/nao1215/retester/internal/engine"
	"github.com/nao1215/retester/internal/model"
)

// evaluateSample computes every column for one sample. Each operation
// starts from cursor 0. A replaceAll error is recorded in the result;
// any other error aborts the sample.
func evaluateSample(re *engine.Regex, replacement, sample string, row int) (*model.SampleResult, error) {
	res := &model.SampleResult{
		Row:   row,
		Input: sample,
	}

	matched, err := re.Test(sample)
	if err != nil {
		return nil, err
	}
	res.Test = matched

	res.Replace, err = re.Replace(sample, replacement)
	if err != nil {
		return nil, err
	}

	if all, err := re.ReplaceAll(sample, replacement); err != nil {
		res.ReplaceAllError = err.Error()
	} else {
		res.ReplaceAll = all
	}

	parts, err := re.Split(sample)
	if err != nil {
		return nil, err
	}
	res.Split = toCaptures(parts)

	matches, err := re.ExecAll(sample)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		res.Matches = append(res.Matches, model.MatchResult{
			Index:     m.Index,
			Captures:  toCaptures(m.Groups),
			LastIndex: m.LastIndex,
		})
	}

	return res, nil
}

func toCaptures(groups []engine.Group) []model.Capture {
	captures := make([]model.Capture, len(groups))
	for i, g := range groups {
		captures[i] = model.Capture{
			Name:  g.Name,
			Value: g.Value,
			Null:  !g.Matched,
		}
	}
	return captures
}
