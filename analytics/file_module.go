package analytics

import (
	"bytes"

	"github.com/chasex/glog"
)

// Module that can perform transactional logging to a rolling file
type FileLogger struct {
	Logger *glog.Logger
}

// Writes LoginObject to file
func (f *FileLogger) LogLoginObject(lo *LoginObject) {
	var b bytes.Buffer
	b.WriteString(lo.ToJson())
	f.Logger.Debug(b.String())
	f.Logger.Flush()
}

// Writes ActivityObject to file
func (f *FileLogger) LogActivityObject(ao *ActivityObject) {
	var b bytes.Buffer
	b.WriteString(ao.ToJson())
	f.Logger.Debug(b.String())
	f.Logger.Flush()
}

func (f *FileLogger) Shutdown() {
	f.Logger.Flush()
}

// Method to initialize the analytic module
func NewFileLogger(filename string) (Module, error) {
	options := glog.LogOptions{
		File:  filename,
		Flag:  glog.LstdFlags,
		Level: glog.Ldebug,
		Mode:  glog.R_Day,
	}
	if logger, err := glog.New(options); err == nil {
		return &FileLogger{
			logger,
		}, nil
	} else {
		return nil, err
	}
}
