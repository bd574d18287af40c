package errors

import (
	"errors"
	"fmt"
	"strings"
)

// BugReportRequest is appended to messages for failures that should never
// happen in a correct build.
const BugReportRequest = `Please report bugs through the Issue Tracker on GitHub
(https://github.com/turtacn/Uni-Dock/issues), so that this problem can be
resolved. The reproducibility of the error may be vital, so please remember
to include the following in your problem report:
* the EXACT error message,
* your version of the program,
* the type of computer system you are running it on,
* all command line options,
* configuration file (if used),
* ligand file as PDBQT,
* receptor file as PDBQT,
* flexible side chains file as PDBQT (if used),
* output file as PDBQT (if any),
* input (if possible),
* random seed the program used (this is printed when the program starts).

Thank you!
`

// ExitCode maps an error to the process exit status: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// UserMessage renders err the way it is shown on stderr at the command-line
// boundary.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *AppError
	if !errors.As(err, &ae) {
		return fmt.Sprintf("An unknown error occurred: %s.\n\n%s", err.Error(), BugReportRequest)
	}

	switch ae.Code {
	case ErrCodeConfiguration:
		return "ERROR: " + withDetail(ae) + "\n"
	case ErrCodeOptionParse:
		return fmt.Sprintf("%s: %s\n", capitalize(ae.Message), causeText(ae))
	case ErrCodeFileRead, ErrCodeFileWrite:
		intent := "writing"
		if ae.ForReading {
			intent = "reading"
		}
		return fmt.Sprintf("Error: could not open %q for %s.\n", ae.Path, intent)
	case ErrCodeResourceExhausted:
		return "Error: insufficient memory!\n"
	case ErrCodeEngineInternal:
		loc := ae.Location
		if loc == "" {
			loc = "the docking engine"
		}
		return fmt.Sprintf("An internal error occurred in %s. %s\n\n%s", loc, withDetail(ae), BugReportRequest)
	case CodeUnknown:
		return fmt.Sprintf("An unknown error occurred. %s\n\n%s", withDetail(ae), BugReportRequest)
	}

	if IsReportable(ae.Code) {
		return fmt.Sprintf("An error occurred: %s.\n\n%s", ae.Error(), BugReportRequest)
	}
	return "Error: " + ae.Error() + "\n"
}

func withDetail(ae *AppError) string {
	msg := ae.Message
	if ae.Detail != "" {
		msg += " (" + ae.Detail + ")"
	}
	if ae.Cause != nil {
		msg += ": " + ae.Cause.Error()
	}
	return msg
}

func causeText(ae *AppError) string {
	if ae.Cause == nil {
		return ae.Detail
	}
	return ae.Cause.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

//Personal.AI order the ending
