package scoring

import (
	"math/rand"
	"time"

	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// Score is the one-time creative scoring payload attached to an asset at
// creation. It is opaque to the rest of the pipeline.
type Score struct {
	Value      float64
	Confidence string
	Metadata   map[string]any
}

type Service interface {
	Generate(assetFormat string) Score
}

type scoreRange struct {
	min, max float64
}

var formatRanges = map[string]scoreRange{
	domain.AssetFormatVideo:    {min: 40, max: 85},
	domain.AssetFormatImage:    {min: 30, max: 75},
	domain.AssetFormatCarousel: {min: 35, max: 78},
}

var defaultRange = scoreRange{min: 20, max: 80}

var kpiRanges = map[string]scoreRange{
	"attention_score": {min: 20, max: 95},
	"brand_score":     {min: 30, max: 90},
	"emotion_score":   {min: 25, max: 88},
	"message_clarity": {min: 35, max: 92},
	"visual_impact":   {min: 40, max: 95},
}

type dummyScorer struct {
	rng *rand.Rand
}

// NewService returns the placeholder scorer used until the external scoring
// provider integration lands. Scores are random within per-format ranges and
// flagged as dummy in the metadata.
func NewService() Service {
	return &dummyScorer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *dummyScorer) Generate(assetFormat string) Score {
	r, ok := formatRanges[assetFormat]
	if !ok {
		r = defaultRange
	}

	value := utils.RoundWithTwoDecimalPlace(s.between(r))

	confidence := "low"
	switch {
	case value > 65:
		confidence = "high"
	case value > 45:
		confidence = "medium"
	}

	metadata := make(map[string]any, len(kpiRanges)+2)
	for name, kpiRange := range kpiRanges {
		metadata[name] = utils.RoundWithTwoDecimalPlace(s.between(kpiRange))
	}
	metadata["generated_at"] = time.Now().UTC().Format(time.RFC3339)
	metadata["is_dummy"] = true

	return Score{
		Value:      value,
		Confidence: confidence,
		Metadata:   metadata,
	}
}

func (s *dummyScorer) between(r scoreRange) float64 {
	return r.min + s.rng.Float64()*(r.max-r.min)
}
