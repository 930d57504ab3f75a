package dispatch

import (
	"io"

	"github.com/spf13/pflag"
)

const (
	classificationFlagSetNameConstant = "dispatch"
	helpFlagNameConstant              = "help"
	helpFlagShorthandConstant         = "h"
	booleanFlagTypeConstant           = "bool"
)

// Mode identifies how an argument vector is executed.
type Mode int

// Supported execution modes.
const (
	ModeDelegate Mode = iota
	ModeRecognized
)

// String returns a readable mode name.
func (mode Mode) String() string {
	if mode == ModeRecognized {
		return "recognized"
	}
	return "delegate"
}

// Decision is the outcome of classifying an argument vector.
type Decision struct {
	Mode      Mode
	Arguments []string
}

// Classifier recognizes the single in-process subcommand.
type Classifier struct {
	subcommand  string
	globalFlags *pflag.FlagSet
}

// NewClassifier constructs a Classifier for subcommand. globalFlags lists flags accepted
// anywhere in the recognized form; their values are never modified.
func NewClassifier(subcommand string, globalFlags *pflag.FlagSet) *Classifier {
	return &Classifier{subcommand: subcommand, globalFlags: globalFlags}
}

// Classify returns ModeRecognized only when arguments consist of the subcommand token and
// known global flags. Help requests, unknown flags and every other vector are delegated unchanged.
func (classifier *Classifier) Classify(arguments []string) Decision {
	forwarded := append([]string{}, arguments...)
	flagSet := classifier.newFlagSet()
	if parseError := flagSet.Parse(arguments); parseError != nil {
		return Decision{Mode: ModeDelegate, Arguments: forwarded}
	}

	helpRequested, _ := flagSet.GetBool(helpFlagNameConstant)
	positional := flagSet.Args()
	if helpRequested || len(positional) != 1 || positional[0] != classifier.subcommand {
		return Decision{Mode: ModeDelegate, Arguments: forwarded}
	}
	return Decision{Mode: ModeRecognized, Arguments: forwarded}
}

func (classifier *Classifier) newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(classificationFlagSetNameConstant, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	flagSet.SetInterspersed(true)
	flagSet.BoolP(helpFlagNameConstant, helpFlagShorthandConstant, false, "")

	if classifier.globalFlags == nil {
		return flagSet
	}
	classifier.globalFlags.VisitAll(func(globalFlag *pflag.Flag) {
		if flagSet.Lookup(globalFlag.Name) != nil {
			return
		}
		shorthand := globalFlag.Shorthand
		if len(shorthand) > 0 && flagSet.ShorthandLookup(shorthand) != nil {
			shorthand = ""
		}
		if globalFlag.Value.Type() == booleanFlagTypeConstant {
			flagSet.BoolP(globalFlag.Name, shorthand, false, globalFlag.Usage)
			return
		}
		flagSet.StringP(globalFlag.Name, shorthand, "", globalFlag.Usage)
	})
	return flagSet
}
