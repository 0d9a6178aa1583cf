package shell

// Markers delimiting the managed block. Detection is a substring match on
// BeginMarker, so these must never change.
const (
	BeginMarker = "# >>> hearth shell integration >>>"
	EndMarker   = "# <<< hearth shell integration <<<"
)

// BackupSuffix is appended to the rc file path to name its backup.
const BackupSuffix = ".hearth-backup"
