// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChatConfig holds the keyword subscription for one chat. Configs are
// created on first configuration, replaced wholesale on re-configuration,
// and never deleted: the last value wins.
type ChatConfig struct {
	// ChatID identifies the chat/session this configuration belongs to.
	ChatID string `json:"chat_id" yaml:"chat_id"`

	// RequiredKeywords must all match (title or abstract) for a paper to
	// be selected.
	RequiredKeywords []string `json:"required_keywords" yaml:"required_keywords"`

	// OptionalKeywords is a list of OR-groups: at least one keyword from
	// every group must match. Groups are ANDed together.
	OptionalKeywords [][]string `json:"optional_keywords" yaml:"optional_keywords"`

	// Translate enables translation of title and abstract for this chat.
	Translate bool `json:"translate" yaml:"translate"`
}

// DefaultChatConfig returns the subscription used for chats that have never
// been configured.
func DefaultChatConfig(chatID string) ChatConfig {
	return ChatConfig{
		ChatID:           chatID,
		RequiredKeywords: []string{"agent"},
		OptionalKeywords: [][]string{{"research", "browse"}},
		Translate:        true,
	}
}
