package storage

// Persisted-state keys. One JSON blob per key.
const (
	KeyTasks       = "saved_tasks"
	KeyArchived    = "archived_tasks"
	KeyStreak      = "user_streak_data"
	KeyPoints      = "user_points_data"
	KeyPreferences = "user_preferences"
	KeyBackup      = "app_data_backup"
	KeyLastSave    = "last_save_date"
	KeyAPIKey      = "llm_api_key"
)

// recordKeys are the user-data keys: writing any of them bumps
// last_save_date, and ClearAll removes exactly these plus the backup.
// The API credential deliberately survives both backups and ClearAll.
var recordKeys = []string{KeyTasks, KeyArchived, KeyStreak, KeyPoints, KeyPreferences}

func isRecordKey(key string) bool {
	for _, k := range recordKeys {
		if k == key {
			return true
		}
	}
	return false
}
