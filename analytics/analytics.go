package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

type WorkflowDataCollector interface {
	RecordStepSuccess(workflowId string, runId string, stepId string, data any)
	RecordStepFailure(workflowId string, runId string, stepId string, reason string)
}

var workflowCollector WorkflowDataCollector

func InitDataCollector(config DataCollectorConfig) error {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		c, err := NewLogFileDataCollector(config.FileName)
		if err != nil {
			return err
		}
		workflowCollector = c
	}
	return nil
}

func RecordStepSuccess(workflowId string, runId string, stepId string, data any) {
	if workflowCollector == nil {
		return
	}
	workflowCollector.RecordStepSuccess(workflowId, runId, stepId, data)
}

func RecordStepFailure(workflowId string, runId string, stepId string, reason string) {
	if workflowCollector == nil {
		return
	}
	workflowCollector.RecordStepFailure(workflowId, runId, stepId, reason)
}
