package config

const (
	defaultProjectDirectory = "."
	defaultInputFolder      = "input"
	defaultOutputFolder     = "output"
	defaultEndmembers       = "endmembers.xlsx"
	defaultSamples          = "results.xlsx"
	defaultSampleSheet      = 1
	defaultResultsName      = "results_predicted.xlsx"

	defaultTolerance     = 1e-5
	defaultMaxIterations = 500
	defaultEpsilon       = 1e-9

	defaultWorkers = 1
)

// NewDefaultConfig returns a Config with defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		ProjectDirectory: defaultProjectDirectory,
		InputFolderName:  defaultInputFolder,
		OutputFolderName: defaultOutputFolder,
		EndmembersPath:   defaultEndmembers,
		SamplesPath:      defaultSamples,
		SampleSheet:      defaultSampleSheet,
		ResultsName:      defaultResultsName,
		Optimizer: OptimizerConfig{
			Tolerance:     defaultTolerance,
			MaxIterations: defaultMaxIterations,
			Epsilon:       defaultEpsilon,
		},
		Batch: BatchConfig{
			Workers: defaultWorkers,
		},
	}
}
