package cfg

type Cfg struct {
	// Pipeline configuration
	OutputPath string
	SourceFile string
	HistoryDB  string
	Timeout    int
	Schedule   string
	Date       string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
