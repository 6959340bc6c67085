package constant

// Module tags used in structured log records.
const (
	ModuleAssistant = "AssistantService"
	ModulePatient   = "PatientService"
	ModuleIngestion = "IngestionService"
	ModuleConsumer  = "ConsumerService"
	ModuleTriage    = "Triage"
	ModuleServer    = "Server"
)

const (
	// DefaultKnowledgeSource labels chunks ingested without an explicit
	// source name.
	DefaultKnowledgeSource = "comprehensive-clinical-nephrology.pdf"
)
