package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	chatx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/chat"
	convox "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/convo"
	enginex "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/engine"
	orchestratorx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/orchestrator"
	taskx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/task"
	toolx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/agent/tool"
	configx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/config"
	_ "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/logger/autoload"
	storex "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/store"
)

type AppConfig struct {
	// OwnerID stands in for the authenticated user the HTTP layer
	// would normally supply. Empty means a fresh id per run.
	OwnerID        string `envconfig:"OWNER_ID" split_words:"true"`
	UseMemoryStore bool   `envconfig:"USE_MEMORY_STORE" split_words:"true" default:"false"`
	MaxHistory     int    `envconfig:"MAX_HISTORY" split_words:"true" default:"100"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	engineCfg := configx.MustNew[enginex.Config]("OPENROUTER")

	var (
		tasks  taskx.Store
		convos convox.Store
	)
	if appCfg.UseMemoryStore {
		tasks = storex.NewMemoryTaskStore()
		convos = storex.NewMemoryConvoStore()
	} else {
		dbCfg := configx.MustNew[storex.PostgresConfig]("POSTGRES")
		db, err := storex.NewDB(*dbCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer db.Close()
		tasks = storex.NewPostgresTaskStore(db)
		convos = storex.NewPostgresConvoStore(db)
	}

	catalog := toolx.DefaultRegistry(tasks, nil).Infos()
	eng, err := enginex.New(ctx, *engineCfg, catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("build reasoning engine")
	}
	if err := eng.Healthcheck(ctx); err != nil {
		log.Fatal().Err(err).Msg("openrouter unreachable")
	}

	orch, err := orchestratorx.New(eng, tasks, convos, orchestratorx.Config{MaxHistory: appCfg.MaxHistory})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	svc, err := chatx.NewService(convos, orch)
	if err != nil {
		log.Fatal().Err(err).Msg("build chat service")
	}

	ownerID := uuid.New()
	if trimmed := strings.TrimSpace(appCfg.OwnerID); trimmed != "" {
		ownerID, err = uuid.Parse(trimmed)
		if err != nil {
			log.Fatal().Err(err).Msg("parse APP_OWNER_ID")
		}
	}

	fmt.Printf("Taskora ready (owner=%s). Type a message, or 'exit'.\n", ownerID)

	var conversationID uuid.UUID
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" {
			break
		}

		out, err := svc.HandleMessage(ctx, chatx.Input{
			OwnerID:        ownerID,
			ConversationID: conversationID,
			Text:           text,
		})
		if err != nil {
			log.Error().Err(err).Msg("chat turn failed")
			continue
		}
		conversationID = out.ConversationID
		fmt.Println(out.Reply)
	}
}
