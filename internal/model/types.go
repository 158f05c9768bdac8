package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the outcome of one completed bug run. Runs are never
// resumed, so only results are kept.
type RunRecord struct {
	VersionedRecord
	ID                string  `json:"id"`
	EnsembleID        string  `json:"ensemble_id,omitempty"`
	Landscape         string  `json:"landscape"`
	Seed              int64   `json:"seed"`
	Duration          float64 `json:"duration"`
	DT                float64 `json:"dt"`
	Steps             int     `json:"steps"`
	InBounds          bool    `json:"in_bounds"`
	GoalHeading       float64 `json:"goal_heading"`
	FinalX            float64 `json:"final_x"`
	FinalY            float64 `json:"final_y"`
	FinalHeading      float64 `json:"final_heading"`
	DistanceFromStart float64 `json:"distance_from_start"`
	MeanHeadingError  float64 `json:"mean_heading_error"`
	HomeDistance      float64 `json:"home_distance"`
	HomeDirection     float64 `json:"home_direction"`
	Fitness           float64 `json:"fitness"`
	CreatedAtUTC      string  `json:"created_at_utc"`
}

type TrajectoryPoint struct {
	Step             int     `json:"step"`
	Time             float64 `json:"t"`
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	Heading          float64 `json:"heading"`
	EstimatedHeading float64 `json:"estimated_heading"`
	BumpAmplitude    float64 `json:"bump_amplitude"`
}

// EnsembleRecord aggregates runs that share parameters and differ by seed.
type EnsembleRecord struct {
	VersionedRecord
	ID               string   `json:"id"`
	Landscape        string   `json:"landscape"`
	BaseSeed         int64    `json:"base_seed"`
	Runs             int      `json:"runs"`
	Duration         float64  `json:"duration"`
	DT               float64  `json:"dt"`
	Contrast         float64  `json:"contrast"`
	SigmaTheta       float64  `json:"sigma_theta"`
	RunIDs           []string `json:"run_ids"`
	DistanceMean     float64  `json:"distance_mean"`
	DistanceStd      float64  `json:"distance_std"`
	HeadingErrorMean float64  `json:"heading_error_mean"`
	HeadingErrorStd  float64  `json:"heading_error_std"`
	InBoundsFraction float64  `json:"in_bounds_fraction"`
	CreatedAtUTC     string   `json:"created_at_utc"`
}

type SweepCell struct {
	Contrast         float64 `json:"contrast"`
	SigmaTheta       float64 `json:"sigma_theta"`
	EnsembleID       string  `json:"ensemble_id"`
	HeadingErrorMean float64 `json:"heading_error_mean"`
	HeadingErrorStd  float64 `json:"heading_error_std"`
	DistanceMean     float64 `json:"distance_mean"`
	InBoundsFraction float64 `json:"in_bounds_fraction"`
}

// SweepRecord is a contrast by heading-noise grid of ensembles.
type SweepRecord struct {
	VersionedRecord
	ID           string      `json:"id"`
	Landscape    string      `json:"landscape"`
	Contrasts    []float64   `json:"contrasts"`
	SigmaThetas  []float64   `json:"sigma_thetas"`
	RunsPerCell  int         `json:"runs_per_cell"`
	Cells        []SweepCell `json:"cells"`
	CreatedAtUTC string      `json:"created_at_utc"`
}
