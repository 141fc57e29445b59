// Package interictal selects the seizure-free subset of a recording's
// clips using a temporal exclusion buffer around seizure annotations.
package interictal

import "github.com/killallgit/ieeg-clips/internal/models"

// DefaultBufferSeconds is the exclusion buffer applied around each
// seizure annotation.
const DefaultBufferSeconds = 3600.0

// Result splits a clip sequence into the interictal subset and the
// rejected clips with their reasons. The two partitions are disjoint and
// their union is the input sequence, in input order.
type Result struct {
	Interictal []models.Clip
	Excluded   []models.ExcludedClip
}

// Select marks and partitions clips. A clip stays interictal iff its own
// window carries no seizure overlap and no seizure's buffered interval
// [start-buffer, end+buffer] intersects the clip window. Direct overlap
// wins over buffer overlap when recording the exclusion reason.
func Select(clips []models.Clip, seizures []models.Annotation, bufferSeconds float64) Result {
	res := Result{
		Interictal: make([]models.Clip, 0, len(clips)),
		Excluded:   []models.ExcludedClip{},
	}

	for i := range clips {
		clip := &clips[i]
		reason, excluded := exclusionReason(clip, seizures, bufferSeconds)
		clip.Interictal = !excluded
		if excluded {
			res.Excluded = append(res.Excluded, models.ExcludedClip{Clip: *clip, Reason: reason})
			continue
		}
		res.Interictal = append(res.Interictal, *clip)
	}

	return res
}

func exclusionReason(clip *models.Clip, seizures []models.Annotation, buffer float64) (models.ExclusionReason, bool) {
	buffered := false
	for i := range seizures {
		sz := &seizures[i]
		if !sz.IsSeizure() {
			continue
		}
		if sz.Overlaps(clip.Start, clip.End) {
			return models.ExclusionSeizureOverlap, true
		}
		// Widening the seizure by the buffer keeps the half-open overlap
		// semantics: a clip starting exactly at end+buffer stays in.
		widened := models.Annotation{Label: sz.Label, Start: sz.Start - buffer, End: sz.End + buffer}
		if widened.Overlaps(clip.Start, clip.End) {
			buffered = true
		}
	}
	// A clip that carries the seizure label itself is never interictal,
	// even if the seizure annotation list it is checked against was
	// filtered upstream.
	if clip.Labels.Contains(models.LabelSeizure) {
		return models.ExclusionSeizureOverlap, true
	}
	if buffered {
		return models.ExclusionBufferOverlap, true
	}
	return "", false
}
