package logging

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// Redactor is implemented by values carrying secrets (PINs, OTP codes).
// Redacted returns a copy safe for logging.
type Redactor interface {
	Redacted() interface{}
}

var dumpConfig = spew.ConfigState{Indent: " ", SortKeys: true}

// DebugDump logs a structured dump of v at debug level. Values implementing
// Redactor are dumped through their redacted copy.
func DebugDump(logger *logrus.Logger, name string, v interface{}) {
	if logger == nil || !logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	if r, ok := v.(Redactor); ok {
		v = r.Redacted()
	}
	logger.WithField("dump", dumpConfig.Sdump(v)).Debugf("Dump.%v", name)
}
