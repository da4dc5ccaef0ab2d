package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/rhmap/lib/hasher"
	"github.com/ValentinKolb/rhmap/lib/table"
	"github.com/ValentinKolb/rhmap/lib/table/engines/sherwood"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupTableFlags adds the common table flags to a command
func SetupTableFlags(cmd *cobra.Command) {
	key := "size"
	cmd.PersistentFlags().Int(key, 0, WrapString("The minimum number of buckets to reserve. The table never shrinks below this, 0 selects the smallest possible table"))

	key = "borrow-keys"
	cmd.PersistentFlags().Bool(key, false, WrapString("Store caller key slices directly instead of copying them. Only safe when the keys are never modified afterwards"))
}

// InitCLIConfig initializes configuration from environment variables
func InitCLIConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("rhmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// ConfigureLogging sets the global log level from the configuration
func ConfigureLogging() error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %s: %w", viper.GetString("log-level"), err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// GetHasher creates a hash strategy based on configuration
func GetHasher() (hasher.Hasher, error) {
	switch viper.GetString("hash") {
	case "sip":
		return hasher.Sip, nil
	case "xx3":
		return hasher.XX3, nil
	case "xx64":
		return hasher.XX64, nil
	case "fnv":
		return hasher.FNV, nil
	default:
		return nil, fmt.Errorf("invalid hash strategy %s", viper.GetString("hash"))
	}
}

// NewTable creates a table based on configuration
func NewTable() (table.Map[[]byte], error) {
	h, err := GetHasher()
	if err != nil {
		return nil, err
	}

	return sherwood.New[[]byte](
		uint32(viper.GetInt("size")),
		&sherwood.Options{
			BorrowKeys: viper.GetBool("borrow-keys"),
			Hasher:     h,
		},
	)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
