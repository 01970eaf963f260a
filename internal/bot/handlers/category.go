package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"upnext/internal/format"
	"upnext/internal/models"
)

func (h *Handlers) handleCategories(ctx context.Context, msg *tgbotapi.Message) {
	categories, err := h.store.Categories(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your categories, please try again.")
		return
	}
	if len(categories) == 0 {
		h.sendText(msg.Chat.ID, "🏷 No categories yet. Add one with /category add <name>.")
		return
	}

	b := &format.Builder{}
	b.Text("🏷 ").Bold("Categories").Text("\n\n")
	for i, c := range categories {
		b.Bold(fmt.Sprintf("%d.", i+1)).Text(fmt.Sprintf(" %s  %s\n", c.Name, hexOf(c.Color)))
	}
	h.sendRendered(msg.Chat.ID, b.Message())
}

func (h *Handlers) handleCategory(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		h.sendText(msg.Chat.ID, "Usage: /category add|rename|color|move|del ... (see /help)")
		return
	}
	sub, rest := args[0], args[1:]

	categories, err := h.store.Categories(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't load your categories, please try again.")
		return
	}

	switch sub {
	case "add":
		h.categoryAdd(ctx, msg, categories, rest)
	case "rename":
		h.categoryRename(ctx, msg, categories, rest)
	case "color":
		h.categoryColor(ctx, msg, categories, rest)
	case "move":
		h.categoryMove(ctx, msg, categories, rest)
	case "del", "delete":
		h.categoryDelete(ctx, msg, categories, rest)
	default:
		h.sendText(msg.Chat.ID, "Usage: /category add|rename|color|move|del ... (see /help)")
	}
}

func (h *Handlers) categoryAdd(ctx context.Context, msg *tgbotapi.Message, categories []models.Category, args []string) {
	color := models.DefaultColor
	if c, ok := parseHex(args[len(args)-1]); ok {
		color = c
		args = args[:len(args)-1]
	}
	name := strings.Join(args, " ")
	if name == "" {
		h.sendText(msg.Chat.ID, "Usage: /category add <name> [#RRGGBB]")
		return
	}
	if _, exists := models.FindCategory(categories, name); exists {
		h.sendText(msg.Chat.ID, fmt.Sprintf("Category %q already exists.", name))
		return
	}

	categories = append(categories, models.NewCategory(name, color))
	if err := h.store.SaveCategories(ctx, msg.From.ID, categories); err != nil {
		log.Printf("Failed to save categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the category, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🏷 Added category %q.", name))
}

func (h *Handlers) categoryRename(ctx context.Context, msg *tgbotapi.Message, categories []models.Category, args []string) {
	if len(args) != 2 {
		h.sendText(msg.Chat.ID, "Usage: /category rename <old> <new>")
		return
	}
	oldName, newName := args[0], args[1]
	if _, ok := models.FindCategory(categories, oldName); !ok {
		h.sendText(msg.Chat.ID, fmt.Sprintf("No category called %q.", oldName))
		return
	}
	if _, clash := models.FindCategory(categories, newName); clash {
		h.sendText(msg.Chat.ID, fmt.Sprintf("Category %q already exists.", newName))
		return
	}

	events, err := h.store.Events(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to load events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't rename the category, please try again.")
		return
	}

	// The rename must cascade over every event still carrying the old name,
	// or they silently fall out of category filters.
	categories, events = models.RenameCategory(categories, events, oldName, newName)
	if err := h.store.SaveCategories(ctx, msg.From.ID, categories); err != nil {
		log.Printf("Failed to save categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't rename the category, please try again.")
		return
	}
	if err := h.store.SaveEvents(ctx, msg.From.ID, events); err != nil {
		log.Printf("Failed to save events: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't rename the category, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🏷 Renamed %q to %q.", oldName, newName))
}

func (h *Handlers) categoryColor(ctx context.Context, msg *tgbotapi.Message, categories []models.Category, args []string) {
	if len(args) != 2 {
		h.sendText(msg.Chat.ID, "Usage: /category color <name> <#RRGGBB>")
		return
	}
	color, ok := parseHex(args[1])
	if !ok {
		h.sendText(msg.Chat.ID, fmt.Sprintf("%q is not a hex color like #4a7de8.", args[1]))
		return
	}
	if _, exists := models.FindCategory(categories, args[0]); !exists {
		h.sendText(msg.Chat.ID, fmt.Sprintf("No category called %q.", args[0]))
		return
	}

	categories = models.RecolorCategory(categories, args[0], color)
	if err := h.store.SaveCategories(ctx, msg.From.ID, categories); err != nil {
		log.Printf("Failed to save categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't save the color, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🏷 %s is now %s.", args[0], args[1]))
}

func (h *Handlers) categoryMove(ctx context.Context, msg *tgbotapi.Message, categories []models.Category, args []string) {
	if len(args) != 2 {
		h.sendText(msg.Chat.ID, "Usage: /category move <name> <position>")
		return
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil || pos < 1 || pos > len(categories) {
		h.sendText(msg.Chat.ID, fmt.Sprintf("Position must be between 1 and %d.", len(categories)))
		return
	}
	from := -1
	for i, c := range categories {
		if c.Name == args[0] {
			from = i
		}
	}
	if from == -1 {
		h.sendText(msg.Chat.ID, fmt.Sprintf("No category called %q.", args[0]))
		return
	}

	categories = models.MoveCategory(categories, from, pos-1)
	if err := h.store.SaveCategories(ctx, msg.From.ID, categories); err != nil {
		log.Printf("Failed to save categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't reorder, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🏷 Moved %q to position %d.", args[0], pos))
}

func (h *Handlers) categoryDelete(ctx context.Context, msg *tgbotapi.Message, categories []models.Category, args []string) {
	name := strings.Join(args, " ")
	if _, ok := models.FindCategory(categories, name); !ok {
		h.sendText(msg.Chat.ID, fmt.Sprintf("No category called %q.", name))
		return
	}

	// Events keep the stale category string; with the category gone they just
	// stop matching its filter.
	categories = models.RemoveCategory(categories, name)
	if err := h.store.SaveCategories(ctx, msg.From.ID, categories); err != nil {
		log.Printf("Failed to save categories: %v", err)
		h.sendText(msg.Chat.ID, "Couldn't delete the category, please try again.")
		return
	}
	h.sendText(msg.Chat.ID, fmt.Sprintf("🏷 Deleted category %q.", name))
}

// parseHex reads a #RRGGBB color into RGBA floats.
func parseHex(s string) (models.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return models.Color{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return models.Color{}, false
	}
	return models.Color{
		R: float64(n>>16&0xff) / 255,
		G: float64(n>>8&0xff) / 255,
		B: float64(n&0xff) / 255,
		A: 1,
	}, true
}

func hexOf(c models.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.R*255+0.5), int(c.G*255+0.5), int(c.B*255+0.5))
}
