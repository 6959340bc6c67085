package prompt

import (
	"fmt"
	"strings"

	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"
)

// Wire contract between the generator and everything downstream that
// parses its output. Both strings are matched literally; changing them
// breaks citation parsing and escalation detection.
const (
	// EscalationMarker is what the backend emits instead of an answer
	// when the supplied chunks cannot support one. Matched
	// case-insensitively.
	EscalationMarker = "web_search_needed"

	// Disclaimer closes every advisory answer.
	Disclaimer = "Disclaimer: educational only. See clinician for medical advice."
)

// ClinicalInstruction is the default system instruction for grounded
// clinical answers.
const ClinicalInstruction = "You are a clinical information assistant for post-discharge nephrology patients. You summarize reference material; you never diagnose and never replace a clinician."

// GroundedBuilder builds the single grounding prompt the answer
// generator sends to the backend: system instruction, numbered chunks
// annotated with their provenance, citation and escalation rules, and
// the user question.
type GroundedBuilder struct {
	query       string
	chunks      []retriever.RetrievedChunk
	instruction string
}

func NewGroundedBuilder(query string, chunks []retriever.RetrievedChunk, instruction string) *GroundedBuilder {
	if instruction == "" {
		instruction = ClinicalInstruction
	}
	return &GroundedBuilder{
		query:       query,
		chunks:      chunks,
		instruction: instruction,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("<system_instruction>\n")
	prompt.WriteString(b.instruction)
	prompt.WriteString("\n</system_instruction>\n\n")

	b.writeChunks(&prompt)
	b.writeRules(&prompt)

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Answer:")

	return prompt.String()
}

func (b *GroundedBuilder) writeChunks(prompt *strings.Builder) {
	prompt.WriteString("<knowledge_chunks>\n")
	if len(b.chunks) == 0 {
		prompt.WriteString("(no chunks retrieved)\n")
	}
	for i, c := range b.chunks {
		prompt.WriteString(fmt.Sprintf("%d. [source: %s | page: %d | chunk: %s]\n", i+1, c.Source, c.Page, c.ChunkId))
		prompt.WriteString(c.Text)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</knowledge_chunks>\n\n")
}

func (b *GroundedBuilder) writeRules(prompt *strings.Builder) {
	prompt.WriteString("<rules>\n")
	prompt.WriteString("1. Answer ONLY from the chunks above. No outside knowledge.\n")
	prompt.WriteString("2. Inline-cite every factual claim exactly as: (Ref: <source> page <page> chunk <chunk_id>).\n")
	prompt.WriteString("3. Keep the answer to 3-6 sentences.\n")
	prompt.WriteString(fmt.Sprintf("4. If the chunks are insufficient, or the question asks for information beyond them, respond with exactly: %s\n", EscalationMarker))
	prompt.WriteString(fmt.Sprintf("5. End every answer with the sentence: %s\n", Disclaimer))
	prompt.WriteString("</rules>\n\n")
}

// WebBuilder builds the second-pass prompt used after escalation: the
// backend answers from web snippets only.
type WebBuilder struct {
	query   string
	results []websearch.Result
}

func NewWebBuilder(query string, results []websearch.Result) *WebBuilder {
	return &WebBuilder{
		query:   query,
		results: results,
	}
}

func (b *WebBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("<system_instruction>\n")
	prompt.WriteString(ClinicalInstruction)
	prompt.WriteString("\n</system_instruction>\n\n")

	prompt.WriteString("<web_results>\n")
	for i, r := range b.results {
		prompt.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, r.Title, r.URL))
		prompt.WriteString(r.Snippet)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</web_results>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("1. The internal knowledge base could not answer this question; answer from the web results above ONLY.\n")
	prompt.WriteString("2. Keep the answer to 3-6 sentences and mention which result supports each claim.\n")
	prompt.WriteString(fmt.Sprintf("3. End the answer with the sentence: %s\n", Disclaimer))
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Answer:")

	return prompt.String()
}

// ReceptionDecisionBuilder builds the routing prompt for unbound
// sessions: the backend classifies the turn and, for lookups, extracts
// a candidate name. The output contract is a single JSON object.
type ReceptionDecisionBuilder struct {
	userText string
	history  []store.Turn
}

func NewReceptionDecisionBuilder(userText string, history []store.Turn) *ReceptionDecisionBuilder {
	return &ReceptionDecisionBuilder{
		userText: userText,
		history:  history,
	}
}

func (b *ReceptionDecisionBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are the receptionist of a post-discharge patient assistant. No patient record is bound to this session yet.\n")
	prompt.WriteString("Your ONLY job is to classify the user's turn. You do NOT answer clinical questions.\n")
	prompt.WriteString("</system>\n\n")

	writeHistory(&prompt, b.history)

	prompt.WriteString("<decision>\n")
	prompt.WriteString("Classify the input as one of 'lookup_patient'|'ask_name'|'handoff_clinical'|'chat':\n")
	prompt.WriteString("- lookup_patient: the input looks like a patient name; extract it into \"name\".\n")
	prompt.WriteString("- ask_name: you need the patient's name before anything else; put your question in \"response_text\".\n")
	prompt.WriteString("- handoff_clinical: the input is a medical question or symptom report.\n")
	prompt.WriteString("- chat: small talk; put a short reply in \"response_text\".\n")
	prompt.WriteString("</decision>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"action\": \"lookup_patient|ask_name|handoff_clinical|chat\", \"name\": \"\", \"response_text\": \"\"}\n")
	prompt.WriteString("</output_format>\n\n")

	writeUserInput(&prompt, b.userText)

	return prompt.String()
}

// TriageDecisionBuilder builds the routing prompt for bound sessions:
// urgent / clinical / chat over the patient's context.
type TriageDecisionBuilder struct {
	userText string
	patient  *store.PatientRecord
	history  []store.Turn
}

func NewTriageDecisionBuilder(userText string, patient *store.PatientRecord, history []store.Turn) *TriageDecisionBuilder {
	return &TriageDecisionBuilder{
		userText: userText,
		patient:  patient,
		history:  history,
	}
}

func (b *TriageDecisionBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are the triage stage of a post-discharge patient assistant. A patient record is bound to this session.\n")
	prompt.WriteString("Your ONLY job is to classify the urgency of the user's turn.\n")
	prompt.WriteString("</system>\n\n")

	if b.patient != nil {
		prompt.WriteString("<patient_context>\n")
		prompt.WriteString(fmt.Sprintf("Name: %s\n", b.patient.Name))
		prompt.WriteString(fmt.Sprintf("Primary diagnosis: %s\n", b.patient.PrimaryDiagnosis))
		prompt.WriteString(fmt.Sprintf("Warning signs: %s\n", strings.Join(b.patient.WarningSigns, ", ")))
		prompt.WriteString("</patient_context>\n\n")
	}

	writeHistory(&prompt, b.history)

	prompt.WriteString("<decision>\n")
	prompt.WriteString("Classify the input as one of 'urgent'|'clinical'|'chat':\n")
	prompt.WriteString("- urgent: signs of an emergency (severe pain, breathing trouble, confusion). Put an emergency instruction in \"response\".\n")
	prompt.WriteString("- clinical: a medical question answerable from reference material.\n")
	prompt.WriteString("- chat: anything else; put a short reply in \"response\".\n")
	prompt.WriteString("</decision>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"type\": \"urgent|clinical|chat\", \"response\": \"\"}\n")
	prompt.WriteString("</output_format>\n\n")

	writeUserInput(&prompt, b.userText)

	return prompt.String()
}

func writeHistory(prompt *strings.Builder, history []store.Turn) {
	if len(history) == 0 {
		return
	}
	prompt.WriteString("<recent_conversation>\n")
	for _, t := range history {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", t.Role, t.Text))
	}
	prompt.WriteString("</recent_conversation>\n\n")
}

// writeUserInput emits the turn text as the final single line of the
// prompt. Decision parsers key on this line, so embedded newlines are
// flattened.
func writeUserInput(prompt *strings.Builder, userText string) {
	flat := strings.ReplaceAll(userText, "\n", " ")
	prompt.WriteString("User Input: ")
	prompt.WriteString(flat)
	prompt.WriteString("\n")
}
