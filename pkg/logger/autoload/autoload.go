// Package autoload initializes the global zerolog logger from the
// environment as a side effect of being imported.
package autoload

import (
	configx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/config"
	logx "github.com/tanpawarit/Taskora-Conversational-Task-Assistant/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
