package star

import "math"

// Names used by RELION model files.
const (
	TableModelClasses = "data_model_classes"

	ColReferenceImage       = "rlnReferenceImage"
	ColClassDistribution    = "rlnClassDistribution"
	ColAccuracyRotations    = "rlnAccuracyRotations"
	ColAccuracyTranslations = "rlnAccuracyTranslationsAngst"
	ColEstimatedResolution  = "rlnEstimatedResolution"
	ColFourierCompleteness  = "rlnOverallFourierCompleteness"

	// older RELION releases wrote translations in pixels under this name
	colAccuracyTranslationsPx = "rlnAccuracyTranslations"
)

// ClassRecord is one row of data_model_classes.
// Statistics missing from the file are NaN.
type ClassRecord struct {
	ReferenceImage       string
	Distribution         float64
	AccuracyRotations    float64
	AccuracyTranslations float64
	EstimatedResolution  float64
	FourierCompleteness  float64
}

// ReadClasses maps a data_model_classes table onto ClassRecords.
func ReadClasses(t *Table) []ClassRecord {
	if t == nil || t.Len() == 0 {
		return nil
	}

	refs, _ := t.Strings(ColReferenceImage)
	dist := floatsOrNaN(t, ColClassDistribution)
	rot := floatsOrNaN(t, ColAccuracyRotations)
	trans := floatsOrNaN(t, ColAccuracyTranslations)
	if !t.Has(ColAccuracyTranslations) {
		trans = floatsOrNaN(t, colAccuracyTranslationsPx)
	}
	res := floatsOrNaN(t, ColEstimatedResolution)
	fc := floatsOrNaN(t, ColFourierCompleteness)

	out := make([]ClassRecord, t.Len())
	for i := range out {
		rec := ClassRecord{
			Distribution:         dist[i],
			AccuracyRotations:    rot[i],
			AccuracyTranslations: trans[i],
			EstimatedResolution:  res[i],
			FourierCompleteness:  fc[i],
		}
		if refs != nil {
			rec.ReferenceImage = refs[i]
		}
		out[i] = rec
	}
	return out
}

func floatsOrNaN(t *Table, name string) []float64 {
	if v, ok := t.Floats(name); ok {
		return v
	}
	v := make([]float64, t.Len())
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}
