package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rmf-policy-be/internal/constant"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/embedding"
	"rmf-policy-be/pkg/events"
	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/policy/checklist"
	"rmf-policy-be/pkg/policy/dialogue"
	"rmf-policy-be/pkg/policy/similarity"
	"rmf-policy-be/pkg/policy/validator"
	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/store"
	"rmf-policy-be/pkg/stream"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/unicode/norm"
)

var tracer = otel.Tracer("rmf-policy-be/internal/service")

// IChatService routes one user message through the conversation and
// returns the reply to stream back.
type IChatService interface {
	HandleMessage(ctx context.Context, userID, content string) (stream.Reply, error)
	Checklist(ctx context.Context, userID string) (string, error)
}

type AnswerValidator interface {
	Validate(ctx context.Context, answer string, q questionnaire.Question) (validator.Verdict, error)
}

// MeaningAdvisor may return an error only when it is retryable.
type MeaningAdvisor interface {
	Suggest(ctx context.Context, answer string) (string, bool, error)
}

type PolicyAssembler interface {
	BuildPolicy(ctx context.Context, questions []questionnaire.Question, history []store.Turn, orgName string) (string, error)
}

// GenericAnswerer answers free-form questions from the knowledge corpus.
type GenericAnswerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type ChatServiceDeps struct {
	Sessions  contract.SessionRepository
	Bank      *questionnaire.Bank
	Embedder  embedding.EmbeddingProvider
	Detector  *similarity.Detector
	Validator AnswerValidator
	Advisor   MeaningAdvisor
	Assembler PolicyAssembler
	Answerer  GenericAnswerer
	Publisher events.Publisher
	// Locker defaults to an in-process lock.
	Locker    UserLocker
	Logger    logger.ILogger
	Now       func() time.Time
}

type chatService struct {
	sessions  contract.SessionRepository
	bank      *questionnaire.Bank
	embedder  embedding.EmbeddingProvider
	detector  *similarity.Detector
	validator AnswerValidator
	advisor   MeaningAdvisor
	assembler PolicyAssembler
	answerer  GenericAnswerer
	publisher events.Publisher
	logger    logger.ILogger
	now       func() time.Time
	locks     UserLocker
}

func NewChatService(d ChatServiceDeps) IChatService {
	if d.Detector == nil {
		d.Detector = similarity.NewDetector()
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Locker == nil {
		d.Locker = &stripedLock{}
	}
	return &chatService{
		sessions:  d.Sessions,
		bank:      d.Bank,
		embedder:  d.Embedder,
		detector:  d.Detector,
		validator: d.Validator,
		advisor:   d.Advisor,
		assembler: d.Assembler,
		answerer:  d.Answerer,
		publisher: d.Publisher,
		logger:    d.Logger,
		now:       d.Now,
		locks:     d.Locker,
	}
}

// exchange is the working state of one message: a private copy of the
// session plus the turns appended to it.
type exchange struct {
	sess     *store.Session
	now      time.Time
	recorded []store.Turn
	policy   *generatedPolicy
}

type generatedPolicy struct {
	orgName string
	length  int
}

func (x *exchange) say(text string) {
	x.sess.AppendAssistant(text, x.now)
	x.recorded = append(x.recorded, x.sess.History[len(x.sess.History)-1])
}

func (x *exchange) hear(text string) {
	x.sess.AppendUser(text, x.now)
	x.recorded = append(x.recorded, x.sess.History[len(x.sess.History)-1])
}

func (x *exchange) answer(t store.Turn) {
	t.CreatedAt = x.now
	x.sess.AppendAnswer(t)
	x.recorded = append(x.recorded, x.sess.History[len(x.sess.History)-1])
}

// HandleMessage serializes per user. The session is only written back
// when the message was handled; a retryable service failure yields the
// busy reply and leaves the stored session untouched.
func (s *chatService) HandleMessage(ctx context.Context, userID, content string) (stream.Reply, error) {
	ctx, span := tracer.Start(ctx, "ChatService.HandleMessage")
	defer span.End()

	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return stream.Reply{}, err
	}
	defer unlock()

	now := s.now()
	current, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return stream.Reply{}, fmt.Errorf("load session: %w", err)
	}
	if !found {
		current = store.NewSession(userID, now)
	}

	x := &exchange{sess: current.Clone(), now: now}
	route := dialogue.Decide(x.sess, s.bank.Len(), content)
	span.SetAttributes(attribute.String("chat.route", route.String()))

	reply, err := s.dispatch(ctx, x, route, content)
	if err != nil {
		if llm.IsRetryable(err) {
			s.logger.Warn("ChatService", "Service busy, state left unchanged", map[string]interface{}{
				"user_id": userID,
				"route":   route.String(),
				"error":   err.Error(),
			})
			span.SetAttributes(attribute.Bool("chat.busy", true))
			return stream.Reply{Text: constant.ChatBusyMessage}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle message")
		s.logger.Error("ChatService", "Failed to handle message", map[string]interface{}{
			"user_id": userID,
			"route":   route.String(),
			"error":   err.Error(),
		})
		return stream.Reply{}, err
	}

	x.sess.UpdatedAt = now
	if err := s.sessions.Save(ctx, x.sess); err != nil {
		return stream.Reply{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("ChatService", "Message handled", map[string]interface{}{
		"user_id":        userID,
		"route":          route.String(),
		"mode":           string(x.sess.Mode),
		"question_index": x.sess.QuestionIndex,
	})

	s.publish(ctx, x)
	return reply, nil
}

func (s *chatService) dispatch(ctx context.Context, x *exchange, route dialogue.Route, content string) (stream.Reply, error) {
	switch route {
	case dialogue.RouteEnterPolicy:
		return s.enterPolicy(x), nil
	case dialogue.RouteExitPolicy:
		return s.exitPolicy(x, content), nil
	case dialogue.RoutePostCompletion:
		return s.postCompletion(ctx, x, content)
	case dialogue.RouteCompleted:
		x.say(constant.ChatQuestionnaireDone)
		return stream.Reply{Text: constant.ChatQuestionnaireDone}, nil
	case dialogue.RouteAnswer:
		return s.answerQuestion(ctx, x, content)
	default:
		return s.generic(ctx, x, content)
	}
}

func (s *chatService) enterPolicy(x *exchange) stream.Reply {
	first, _ := s.bank.At(0)

	x.sess.Mode = store.ModePolicy
	x.sess.SubState = store.SubStateNone
	x.sess.QuestionIndex = 0
	x.sess.History = []store.Turn{}

	text := constant.ChatPolicyModeIntro + "\n\n" + constant.ChatQuestionPrefix + first.Query
	x.say(first.Query)
	x.say(text)
	return stream.Reply{Text: text, SampleAnswer: first.SampleAnswer}
}

func (s *chatService) exitPolicy(x *exchange, content string) stream.Reply {
	x.hear(strings.TrimSpace(content))
	x.say(constant.ChatExitPolicyMode)

	x.sess.Mode = store.ModeGeneric
	x.sess.SubState = store.SubStateNone
	x.sess.RemoveUserTurns(dialogue.CmdExit)
	return stream.Reply{Text: constant.ChatExitPolicyMode}
}

func (s *chatService) postCompletion(ctx context.Context, x *exchange, content string) (stream.Reply, error) {
	step := dialogue.Advance(x.sess.SubState, content)

	var text string
	switch step.Action {
	case dialogue.ActionPromptOrgDecision:
		text = constant.ChatOrgDecision
	case dialogue.ActionPromptOrgName:
		text = constant.ChatOrgNamePrompt
	case dialogue.ActionThank:
		text = constant.ChatThanks
	case dialogue.ActionGeneratePolicy:
		policy, err := s.assembler.BuildPolicy(ctx, s.bank.All(), x.sess.History, step.OrgName)
		if err != nil {
			return stream.Reply{}, err
		}
		x.sess.SubState = step.Next
		x.policy = &generatedPolicy{orgName: step.OrgName, length: len(policy)}

		text = constant.ChatPolicyIntro + policy
		x.say(text)
		return stream.Reply{Text: text, Style: stream.StyleWhole}, nil
	default:
		text = constant.ChatYesNoReprompt
	}

	x.sess.SubState = step.Next
	x.say(text)
	return stream.Reply{Text: text}, nil
}

func (s *chatService) answerQuestion(ctx context.Context, x *exchange, content string) (stream.Reply, error) {
	index := x.sess.QuestionIndex
	q, _ := s.bank.At(index)
	answer := strings.TrimSpace(content)

	reprompt := func(lead string) stream.Reply {
		text := lead + "\n\n" + constant.ChatQuestionPrefix + q.Query
		x.say(text)
		return stream.Reply{Text: text, SampleAnswer: q.SampleAnswer}
	}

	if validator.IsLowEffort(answer) {
		message := constant.ChatLowEffortAnswer
		if s.advisor != nil {
			suggestion, ok, err := s.advisor.Suggest(ctx, answer)
			if err != nil {
				return stream.Reply{}, err
			}
			if ok {
				message = suggestion
			}
		}
		return reprompt(constant.ChatErrorPrefix + message), nil
	}

	vec, err := s.embedder.Generate(ctx, norm.NFC.String(answer), embedding.TaskSemanticSimilarity)
	if err != nil {
		return stream.Reply{}, fmt.Errorf("embed answer: %w", err)
	}

	if message, dup := s.detector.FindDuplicate(x.sess.History, index, vec); dup {
		return reprompt(constant.ChatDuplicatePrefix + message), nil
	}

	verdict, err := s.validator.Validate(ctx, answer, q)
	if err != nil {
		return stream.Reply{}, err
	}

	turn := store.Turn{
		Content:       answer,
		Compliance:    store.ComplianceNonCompliant,
		Category:      q.Category,
		Title:         q.Title,
		QuestionIndex: index,
		Embedding:     vec,
	}

	if !verdict.IsCompliant() {
		x.answer(turn)
		return reprompt(constant.ChatNonCompliantPrefix + verdict.Message), nil
	}

	turn.Compliance = store.ComplianceCompliant
	x.answer(turn)
	x.sess.QuestionIndex++

	if next, ok := s.bank.At(x.sess.QuestionIndex); ok {
		x.say(next.Query)
		return stream.Reply{Text: constant.ChatQuestionPrefix + next.Query, SampleAnswer: next.SampleAnswer}, nil
	}

	text := constant.ChatChecklistIntro + checklist.BuildChecklist(s.bank.All(), x.sess.History) + constant.ChatPolicyDecision
	x.sess.SubState = store.SubStateAwaitingPolicyDecision
	x.say(text)
	return stream.Reply{Text: text, Style: stream.StyleWhole}, nil
}

func (s *chatService) generic(ctx context.Context, x *exchange, content string) (stream.Reply, error) {
	x.hear(content)

	answer, err := s.answerer.Answer(ctx, content)
	if err != nil {
		return stream.Reply{}, err
	}

	text := answer + constant.ChatGenericUpsell
	x.say(text)
	return stream.Reply{Text: text, Style: stream.StyleGeneric}, nil
}

// Checklist renders the current checklist for a user without changing
// their session.
func (s *chatService) Checklist(ctx context.Context, userID string) (string, error) {
	sess, found, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	var history []store.Turn
	if found {
		history = sess.History
	}
	return checklist.BuildChecklist(s.bank.All(), history), nil
}

func (s *chatService) publish(ctx context.Context, x *exchange) {
	var batch []events.Event
	for _, t := range x.recorded {
		batch = append(batch, events.NewTurnRecorded(events.TurnRecord{
			UserID:        x.sess.UserID,
			Role:          string(t.Role),
			Content:       t.Content,
			Mode:          string(x.sess.Mode),
			Compliance:    string(t.Compliance),
			QuestionIndex: t.QuestionIndex,
			Title:         t.Title,
		}, x.now))
	}
	if x.policy != nil {
		batch = append(batch, events.NewPolicyGenerated(x.sess.UserID, x.policy.orgName, x.policy.length, x.now))
	}

	for _, e := range batch {
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("ChatService", "Failed to publish event", map[string]interface{}{
				"type":  e.EventType(),
				"error": err.Error(),
			})
		}
	}
}
