/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/ecf"
)

type EcfSubCommand string

const (
	EcfAboutCmd     EcfSubCommand = "about"
	EcfHelpCmd      EcfSubCommand = "help"
	EcfPlayerCmd    EcfSubCommand = "player"
	EcfLiveCmd      EcfSubCommand = "live"
	EcfEventsCmd    EcfSubCommand = "events"
	EcfOpponentsCmd EcfSubCommand = "opponents"
)

const (
	playerEventCount = 3
	eventsCount      = 5
	opponentsCount   = 5
)

var errCodeRequired = errors.New("an ECF player code is required")

func ecfCommandDefinition() *discordgo.ApplicationCommand {
	typeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 3)
	for _, gt := range ecf.AllGameTypes() {
		typeChoices = append(typeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(gt),
			Value: string(gt),
		})
	}
	playerOpts := func() []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "ECF player code, e.g. 123456A",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "type",
				Description: "Rating list (default Standard)",
				Choices:     typeChoices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "broadcast",
				Description: "Show the reply to everyone in the channel",
			},
		}
	}
	subCmd := func(name EcfSubCommand, desc string,
		opts []*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {

		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        string(name),
			Description: desc,
			Options:     opts,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        string(EcfCmd),
		Description: "English Chess Federation ratings",
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(EcfHelpCmd, "How to use /ecf", nil),
			subCmd(EcfAboutCmd, "About this bot", nil),
			subCmd(EcfPlayerCmd, "Ratings and recent events for a player",
				playerOpts()),
			subCmd(EcfLiveCmd, "Live rating estimate for a player", playerOpts()),
			subCmd(EcfEventsCmd, "A player's most recent events", playerOpts()),
			subCmd(EcfOpponentsCmd, "A player's most frequent opponents",
				playerOpts()),
		},
	}
}

func (b *bot) ecfCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := b.ecfHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := b.ecfSubCmdHdlrs[EcfSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

//go:embed about.txt
var aboutText string

func (b *bot) ecfAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(aboutText)
	return resp
}

//go:embed help.md
var helpText string

func (b *bot) ecfHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

type playerArgs struct {
	code      string
	gameType  ecf.GameType
	broadcast bool
}

func parsePlayerArgs(inter *discordgo.Interaction) (*playerArgs, error) {
	data := inter.ApplicationCommandData()
	args := &playerArgs{gameType: ecf.GameTypeStandard}
	if len(data.Options) == 0 {
		return nil, errCodeRequired
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "code":
			args.code = strings.ToUpper(strings.TrimSpace(opt.StringValue()))
		case "type":
			gt, err := ecf.ParseGameType(opt.StringValue())
			if err != nil {
				return nil, fmt.Errorf("%w; use Standard, Rapid or Blitz", err)
			}
			args.gameType = gt
		case "broadcast":
			args.broadcast = opt.BoolValue()
		}
	}
	if args.code == "" {
		return nil, errCodeRequired
	}

	return args, nil
}

// playerCmd runs the common part of every player subcommand: parse options,
// fetch the summary, and wrap render's output in a code block.
func (b *bot) playerCmd(ctx context.Context, name EcfSubCommand,
	inter *discordgo.Interaction,
	render func(ps *ecf.PlayerSummary) string) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	log := b.log.With(zap.String("cmd", string(name)))

	args, err := parsePlayerArgs(inter)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Invalid request: %v", err)
		log.Info("invalid arguments", zap.Error(err))
		return resp
	}

	ps, err := b.source.GetPlayerSummary(ctx, args.code, args.gameType,
		b.summaryOptions())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching player %v: %v",
			args.code, err)
		log.Warn("fetch failed", zap.String("code", args.code), zap.Error(err))
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(render(ps)))
	if args.broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func (b *bot) summaryOptions() ecf.SummaryOptions {
	return ecf.SummaryOptions{
		Window:           ecf.WindowAll,
		PerformanceCount: b.dash.DefaultPerformance,
		TopOpponents:     opponentsCount,
		BestResults:      b.dash.BestResults,
		Now:              time.Now(),
	}
}

func (b *bot) ecfPlayerCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.playerCmd(ctx, EcfPlayerCmd, inter, func(ps *ecf.PlayerSummary) string {
		return ecf.BuildPlayerReport(ps, playerEventCount)
	})
}

func (b *bot) ecfLiveCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.playerCmd(ctx, EcfLiveCmd, inter, buildLiveReport)
}

func buildLiveReport(ps *ecf.PlayerSummary) string {
	var sb strings.Builder
	if ps.Player != nil {
		sb.WriteString(fmt.Sprintf("%v (%v)\n", ps.Player.Name, ps.Player.Code))
	}
	if ps.Summary.LiveRating == nil {
		sb.WriteString(fmt.Sprintf("No live %v rating: no games rated this month.\n",
			ps.GameType))
	} else {
		sb.WriteString(fmt.Sprintf("Live %v rating: %v\n", ps.GameType,
			*ps.Summary.LiveRating))
	}
	if ps.Official != nil && ps.Official.Success {
		suffix := ""
		if ps.Official.Provisional() {
			suffix = "P"
		}
		sb.WriteString(fmt.Sprintf("Official %v rating: %v%v\n", ps.GameType,
			ps.Official.Rating, suffix))
	}
	return sb.String()
}

func (b *bot) ecfEventsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	minGames := b.dash.UnreliableEventGames
	return b.playerCmd(ctx, EcfEventsCmd, inter, func(ps *ecf.PlayerSummary) string {
		if len(ps.Summary.Events) == 0 {
			return fmt.Sprintf("No rated %v events found.\n", ps.GameType)
		}
		return ecf.BuildEventsReport(ps.Summary.Events, eventsCount, minGames)
	})
}

func (b *bot) ecfOpponentsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return b.playerCmd(ctx, EcfOpponentsCmd, inter, func(ps *ecf.PlayerSummary) string {
		if len(ps.Summary.Opponents) == 0 {
			return fmt.Sprintf("No rated %v games found.\n", ps.GameType)
		}
		return ecf.BuildOpponentsReport(ps.Summary.Opponents)
	})
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
