package dto

type ExporterInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Formats []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type ExportInput struct {
	Exporter  string
	Format    string
	OutputDir string
}

type ExportOutput struct {
	Exporter     string
	Format       string
	OutputPath   string
	BytesWritten int
	Warning      string
}
