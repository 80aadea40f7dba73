package services

// Stage is a step of the ingestion pipeline.
type Stage string

const (
	StageValidating        Stage = "validating"
	StageNormalizing       Stage = "normalizing"
	StageUploading         Stage = "uploading"
	StageRecognizing       Stage = "recognizing"
	StageEnrichingLocation Stage = "enriching_location"
	StagePersisting        Stage = "persisting"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
)

// orphaning reports whether failing in s leaves a stored object behind.
func (s Stage) orphaning() bool {
	switch s {
	case StageRecognizing, StageEnrichingLocation, StagePersisting:
		return true
	}
	return false
}
