/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/config"
	"github.com/mikeb26/ecfdash/ecf"
	"github.com/mikeb26/ecfdash/internal"
)

type TopLevelCommand string

const EcfCmd TopLevelCommand = "ecf"

const interactionPath = "/DiscordBot/Interaction"

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

// summarySource is the part of ecf.Client the bot reads from.
type summarySource interface {
	GetPlayerSummary(ctx context.Context, code string, gt ecf.GameType,
		opts ecf.SummaryOptions) (*ecf.PlayerSummary, error)
}

type bot struct {
	source  summarySource
	pubKey  ed25519.PublicKey
	cfg     config.DiscordConfig
	dash    config.DashboardConfig
	session *discordgo.Session
	log     *zap.Logger

	topLevelCmdHdlrs map[TopLevelCommand]CmdHandler
	ecfSubCmdHdlrs   map[EcfSubCommand]CmdHandler
}

func newBot(source summarySource, cfg *config.Config) (*bot, error) {
	pubKeyBytes, err := hex.DecodeString(cfg.Discord.PublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: discord.public_key must be a hex encoded ed25519 key",
			config.ErrInvalidConfig)
	}

	b := &bot{
		source: source,
		pubKey: ed25519.PublicKey(pubKeyBytes),
		cfg:    cfg.Discord,
		dash:   cfg.Dashboard,
		log:    zap.L().Named("discordbot"),
	}
	b.topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
		EcfCmd: b.ecfCmdHandler,
	}
	b.ecfSubCmdHdlrs = map[EcfSubCommand]CmdHandler{
		EcfAboutCmd:     b.ecfAboutCmdHandler,
		EcfHelpCmd:      b.ecfHelpCmdHandler,
		EcfPlayerCmd:    b.ecfPlayerCmdHandler,
		EcfLiveCmd:      b.ecfLiveCmdHandler,
		EcfEventsCmd:    b.ecfEventsCmdHandler,
		EcfOpponentsCmd: b.ecfOpponentsCmdHandler,
	}

	if cfg.Discord.Token != "" {
		b.session, err = discordgo.New("Bot " + cfg.Discord.Token)
		if err != nil {
			return nil, fmt.Errorf("initializing discord client: %w", err)
		}
	}

	return b, nil
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		b.log.Warn("failed to verify interaction")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.log.Warn("failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		b.log.Warn("failed to unmarshal interaction", zap.Error(err),
			zap.ByteString("body", body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		name := inter.ApplicationCommandData().Name
		hdlr, ok := b.topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		b.log.Warn("unimplemented interaction type",
			zap.Stringer("type", inter.Type))
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		b.log.Error("failed to marshal resp", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(rawResp); err != nil {
		b.log.Warn("failed to write resp", zap.Error(err))
	}
}

// commandHash fingerprints a command definition so that re-registration is
// only attempted when the definition changes.
func commandHash(cmd *discordgo.ApplicationCommand) (string, error) {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("marshalling command: %w", err)
	}
	hash := sha256.Sum256(cmdJson)
	return hex.EncodeToString(hash[:]), nil
}

func (b *bot) registerSlashCommands() {
	if b.session == nil {
		b.log.Warn("no discord token configured; skipping command registration")
		return
	}

	ecfCmd := ecfCommandDefinition()
	hash, err := commandHash(ecfCmd)
	if err != nil {
		b.log.Error("failed to hash command", zap.Error(err))
		return
	}

	if b.cfg.CommandID == "" {
		cmd, err := b.session.ApplicationCommandCreate(b.cfg.AppID, "", ecfCmd)
		if err != nil {
			b.log.Error("failed to register command", zap.String("cmd", ecfCmd.Name),
				zap.Error(err))
			return
		}
		b.log.Info("registered command; set discord.command_id and discord.command_hash",
			zap.String("cmd", cmd.Name), zap.String("cmd_id", cmd.ID),
			zap.String("hash", hash))
	} else if hash != b.cfg.CommandHash {
		cmd, err := b.session.ApplicationCommandEdit(b.cfg.AppID, "",
			b.cfg.CommandID, ecfCmd)
		if err != nil {
			b.log.Error("failed to update command", zap.String("cmd", ecfCmd.Name),
				zap.Error(err))
			return
		}
		b.log.Info("updated command; set discord.command_hash",
			zap.String("cmd", cmd.Name), zap.String("cmd_id", cmd.ID),
			zap.String("hash", hash))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}
	log, err := internal.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	client := ecf.NewClient(ctx, cfg.ClientOptions())
	b, err := newBot(client, cfg)
	if err != nil {
		log.Fatal("failed to initialize bot", zap.Error(err))
	}
	go b.registerSlashCommands()

	mux := http.NewServeMux()
	mux.HandleFunc(interactionPath, b.interactionHandler)
	srv := &http.Server{
		Addr:              cfg.Discord.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", zap.String("addr", cfg.Discord.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("serve failed", zap.Error(err))
	}
	log.Info("exiting")
}
