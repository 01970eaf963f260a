// Package format renders bot output as plain text plus Telegram message
// entities. Entities are built directly instead of going through a Markdown
// round trip, so event titles never need escaping.
package format

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message is rendered text with its styling entities.
type Message struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len calculates the UTF-16 length of a string. Telegram entity offsets
// and lengths count UTF-16 code units, not bytes or runes.
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // Non-BMP characters (surrogate pairs)
			} else {
				length += 1
			}
		}
	}
	return length
}

// Builder accumulates text and entities with correct UTF-16 offsets.
type Builder struct {
	text     []byte
	offset   int // running UTF-16 length of text
	entities []tgbotapi.MessageEntity
}

func (b *Builder) Text(s string) *Builder {
	b.text = append(b.text, s...)
	b.offset += UTF16Len(s)
	return b
}

func (b *Builder) styled(kind, s string) *Builder {
	b.entities = append(b.entities, tgbotapi.MessageEntity{
		Type:   kind,
		Offset: b.offset,
		Length: UTF16Len(s),
	})
	return b.Text(s)
}

func (b *Builder) Bold(s string) *Builder {
	return b.styled("bold", s)
}

func (b *Builder) Italic(s string) *Builder {
	return b.styled("italic", s)
}

func (b *Builder) Code(s string) *Builder {
	return b.styled("code", s)
}

func (b *Builder) Message() Message {
	return Message{Text: string(b.text), Entities: b.entities}
}
