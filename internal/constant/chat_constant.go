package constant

const (
	DefaultUserID = "default_user"

	ChatBusyMessage = "Our Servers are busy right now, try again later."

	ChatPolicyModeIntro = "**Policy Builder Mode**: Type 'exit' to return to general Q&A."
	ChatExitPolicyMode  = "Returned to general Q&A mode. Ask any NIST AI RMF-related question."
	ChatGenericUpsell   = "\n\nWould you like to build a policy now? (Type 'build policy' to start)"

	ChatQuestionPrefix     = "**Question**: "
	ChatErrorPrefix        = "**Error**: "
	ChatLowEffortAnswer    = "Please provide a meaningful answer with sufficient detail."
	ChatDuplicatePrefix    = "**Non-compliant**: "
	ChatNonCompliantPrefix = "**Your answer is non-compliant**.\n"

	ChatChecklistIntro    = "**All questions answered. Here's your checklist**:\n\n"
	ChatPolicyDecision    = "\n\nWould you like to generate a policy based on your answers? (Yes/No)"
	ChatOrgDecision       = "Do you want to provide your organization name? (Yes/No)"
	ChatOrgNamePrompt     = "Please provide your organization name."
	ChatYesNoReprompt     = "Please respond with 'Yes' or 'No'."
	ChatThanks            = "Thank you for using the NIST AI RMF Policy Builder."
	ChatPolicyIntro       = "**Here is your generated policy**:\n\n"
	ChatQuestionnaireDone = "The policy questionnaire is complete. Type 'exit' to return to general Q&A mode."

	TranscriptTopic = "transcripts"
)
