package emoji

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":      {"❌", "[ERR]"},
	"warning":    {"⚠️", "[WRN]"},
	"info":       {"ℹ️", "[INF]"},
	"success":    {"✅", "[OK]"},
	"location":   {"📍", "[LOC]"},
	"building":   {"🏢", "[BLD]"},
	"chart":      {"📈", "[CHT]"},
	"statistics": {"📊", "[STATS]"},
	"table":      {"🗂️", "[TBL]"},
	"search":     {"🔍", "[SRCH]"},
	"sort":       {"↕️", "[SORT]"},
	"money":      {"💰", "[INR]"},
	"units":      {"🏘️", "[UNITS]"},
	"calendar":   {"📅", "[YEARS]"},
	"up":         {"▲", "[+]"},
	"down":       {"▼", "[-]"},
	"sparkles":   {"✨", "[AI]"},
	"download":   {"💾", "[CSV]"},
	"retry":      {"🔄", "[RETRY]"},
	"network":    {"📡", "[NET]"},
	"help":       {"❓", "[?]"},
	"target":     {"🎯", "[>]"},
	"door":       {"🚪", "[EXIT]"},
	"rocket":     {"🚀", "[GO]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns the emoji or its ASCII fallback
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}
