// Package chatbot answers health questions through a server-held
// generative-text credential. Messages matching an emergency phrase are
// answered locally with fixed guidance and never reach the external API.
package chatbot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/careplus/pharmacy-api/internal/catalog"
	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

const consentCollection = "chat-consent"

// AdvisoryClient is the outbound generative-text call. Stubbed in tests.
type AdvisoryClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Bilingual red-flag phrases. Matching is case-insensitive substring.
var emergencyPhrases = []string{
	"chest pain",
	"shortness of breath",
	"bleeding",
	"seizure",
	"sudden weakness",
	"weakness sudden",
	"slurred speech",
	"anaphylaxis",
	"ضيق نفس",
	"صعوبة في التنفس",
	"الم في الصدر",
	"الم صدر",
	"فقدان الوعي",
	"غشيان",
	"نزيف حاد",
	"صرع",
	"تشنج",
	"خدر مفاجئ",
	"لا أستطيع التنفس",
}

// Phrases in a reply that indicate the model itself is suggesting
// emergency care; they get an escalation notice prepended.
var escalationTriggers = []string{
	"emergency",
	"call emergency",
	"seek immediate",
	"الطوارئ",
	"الاسعاف",
	"اذهب إلى الطوارئ",
	"اذهب للمستشفى",
}

const (
	disclaimerText = "Important: this assistant offers general health information only and is no substitute for seeing a doctor. In an emergency, call emergency services. By continuing you agree to proceed with the conversation."

	emergencyText = "If you are experiencing a serious symptom such as severe chest pain, difficulty breathing, loss of consciousness or heavy bleeding, go to the nearest emergency room or call an ambulance immediately."

	escalationNotice = "Based on your symptoms, I recommend going to the emergency room or seeing a specialist right away."

	apologyText = "I could not reach the medical advisory service right now. Please try again later."

	systemPrompt = "You are a professional physician experienced across medical specialties. Answer in a precise, simple and reassuring medical tone. Never reveal that you are an AI model. If the situation sounds like an emergency, direct the user to emergency care and offer no risky alternatives. Never state or adjust medication dosages; you may mention general treatment categories or recommended tests."

	userPromptSuffix = "\n\nPlease give me: 1) a brief preliminary assessment with possibilities, 2) recommended checks or tests, 3) when to see a doctor or go to the ER directly, 4) safe initial home-care advice."
)

type Service struct {
	store    kvstore.Store
	advisory AdvisoryClient
	faqs     *catalog.Service
	log      *slog.Logger
}

func NewService(store kvstore.Store, advisory AdvisoryClient, faqs *catalog.Service, log *slog.Logger) *Service {
	return &Service{store: store, advisory: advisory, faqs: faqs, log: log}
}

func isEmergency(text string) bool {
	t := strings.ToLower(text)
	for _, phrase := range emergencyPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}

func suggestsEmergency(reply string) bool {
	t := strings.ToLower(reply)
	for _, phrase := range escalationTriggers {
		if strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}

// Ask processes one user message and returns the bot messages to render,
// in order. The disclaimer appears exactly once per user, before the
// first answer.
func (s *Service) Ask(ctx context.Context, userID int64, text string) []model.ChatMessage {
	var replies []model.ChatMessage

	consentKey := kvstore.Key(consentCollection, userID)
	if !kvstore.Load(ctx, s.store, s.log, consentKey, false) {
		replies = append(replies, model.ChatMessage{Sender: "bot", Text: disclaimerText})
		kvstore.Save(ctx, s.store, s.log, consentKey, true)
	}

	if isEmergency(text) {
		return append(replies, model.ChatMessage{Sender: "bot", Text: emergencyText})
	}

	answer, err := s.advisory.Generate(ctx, systemPrompt, "Medical question: "+text+userPromptSuffix)
	if err != nil {
		s.log.Error("advisory call failed", "user_id", userID, "error", err)
		return append(replies, model.ChatMessage{Sender: "bot", Text: apologyText})
	}

	if suggestsEmergency(answer) {
		answer = escalationNotice + "\n\n" + answer
	}
	return append(replies, model.ChatMessage{Sender: "bot", Text: answer})
}

// Suggestions returns the FAQ questions offered as quick prompts.
func (s *Service) Suggestions(ctx context.Context, limit int) []string {
	faqs := s.faqs.FAQ(ctx)
	if limit > 0 && len(faqs) > limit {
		faqs = faqs[:limit]
	}
	questions := make([]string, 0, len(faqs))
	for _, f := range faqs {
		questions = append(questions, f.Question)
	}
	return questions
}
