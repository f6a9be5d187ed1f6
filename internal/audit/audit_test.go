package audit

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newCapturingTrail() (*Trail, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return &Trail{log: l}, &buf
}

func TestStatementSuccessLogsResult(t *testing.T) {
	trail, buf := newCapturingTrail()
	trail.Statement(`x = 1`, "1", nil, 5*time.Millisecond)
	out := buf.String()
	assert.Contains(t, out, "statement ok")
	assert.Contains(t, out, `raw="x = 1"`)
	assert.Contains(t, out, `result=1`)
}

func TestStatementErrorLogsAsWarning(t *testing.T) {
	trail, buf := newCapturingTrail()
	trail.Statement(`Moon = 1`, "", errors.New("cannot assign reserved name Moon"), time.Millisecond)
	out := buf.String()
	assert.Contains(t, out, "statement failed")
	assert.Contains(t, out, "level=warning")
}

func TestSetLevelAdjustsVerbosity(t *testing.T) {
	trail, _ := newCapturingTrail()
	trail.SetLevel(logrus.ErrorLevel)
	assert.Equal(t, logrus.ErrorLevel, trail.log.GetLevel())
}
