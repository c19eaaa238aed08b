package model

// InstallStage tracks where an install call is, for logs and error context.
// Any stage may end in failure, which aborts the remaining ones.
type InstallStage string

const (
	StageFetching         InstallStage = "fetching"
	StageDetecting        InstallStage = "detecting"
	StageRemovingExisting InstallStage = "removing_existing"
	StageExtracting       InstallStage = "extracting"
	StageDone             InstallStage = "done"
)
