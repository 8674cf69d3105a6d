package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"code.cloudfoundry.org/aib/util"
)

// knownOutputFormats are the values "--output" accepts.
var knownOutputFormats = []string{"human", "json"}

// log is the shared structured logger for every subcommand; its level is
// set from --verbose/--quiet in configureLogging, called out of
// PersistentPreRunE alongside validateBasicFlags.
var log = logrus.New()

func validateOutputFormat() error {
	if !util.StringInSlice(flagOutputFormat, knownOutputFormats) {
		return fmt.Errorf(
			"--output must be one of %s, got %q",
			util.WordList(util.QuoteList(knownOutputFormats), "or"),
			flagOutputFormat,
		)
	}
	return nil
}

// configureLogging sets log's level from the resolved --verbose/--quiet
// flags (misc.go's Verbosity enum), quiet winning over verbose if both are
// somehow set.
func configureLogging() {
	log.Out = os.Stderr
	switch {
	case flagQuiet:
		log.SetLevel(verbosityToLevel(util.VerbosityQuiet))
	case flagVerbose:
		log.SetLevel(verbosityToLevel(util.VerbosityVerbose))
	default:
		log.SetLevel(verbosityToLevel(util.VerbosityDefault))
	}
}

func verbosityToLevel(v util.Verbosity) logrus.Level {
	switch v {
	case util.VerbosityQuiet:
		return logrus.ErrorLevel
	case util.VerbosityVerbose, util.VerbosityDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func logVerbose(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// printNames renders a sorted list of names, either as plain lines (human)
// or as a JSON array (json) under the given key.
func printNames(key string, names []string) error {
	switch flagOutputFormat {
	case "json":
		return printJSON(map[string]interface{}{key: names})
	default:
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}
}

// printJSON marshals value with util.JSONMarshal, the teacher's helper for
// dumping structures that may carry the map[interface{}]interface{} keys
// gopkg.in/yaml.v2 produces when decoding a manifest — encoding/json alone
// rejects those.
func printJSON(value interface{}) error {
	out, err := util.JSONMarshal(value)
	if err != nil {
		return err
	}
	var pretty interface{}
	if err := json.Unmarshal(out, &pretty); err == nil {
		out, err = json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
	}
	fmt.Println(string(out))
	return nil
}
