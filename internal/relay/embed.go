package relay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"relaybot/internal/domain"
)

// Built-in embed defaults, used when the style config leaves a field
// empty or a color fails to parse.
const (
	defaultTelegramTitle = "Click to read in Telegram"
	defaultVideoTitle    = "Click to watch video"
	defaultTelegramColor = 0x007BFF
	defaultVideoColor    = 0xFF9900
)

// BuildEmbed produces the link-preview embed pointing back at the
// source post. Video posts get the video title/color pair, everything
// else the telegram pair.
func BuildEmbed(hasVideo bool, style domain.EmbedStyle, sourceURL string) *discordgo.MessageEmbed {
	title := style.TelegramTitle
	colorStr := style.TelegramColor
	fallback := defaultTelegramColor
	if hasVideo {
		title = style.VideoTitle
		colorStr = style.VideoColor
		fallback = defaultVideoColor
		if title == "" {
			title = defaultVideoTitle
		}
	} else if title == "" {
		title = defaultTelegramTitle
	}

	return &discordgo.MessageEmbed{
		Title: title,
		URL:   sourceURL,
		Color: ParseHexColor(colorStr, fallback),
	}
}

// ParseHexColor interprets s as hex RGB with an optional leading "#".
// Empty or malformed input yields the fallback, never an error.
func ParseHexColor(s string, fallback int) int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil || v < 0 || v > 0xFFFFFF {
		return fallback
	}
	return int(v)
}

// SourceURL is the canonical t.me link for a channel post.
func SourceURL(chatUsername string, messageID int) string {
	return fmt.Sprintf("https://t.me/%s/%d", chatUsername, messageID)
}
