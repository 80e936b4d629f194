// Package autoload initializes the global logger from LOG_* variables on import.
package autoload

import (
	configx "github.com/tanpawarit/resource-trader/pkg/config"
	logx "github.com/tanpawarit/resource-trader/pkg/logger"
)

func init() {
	conf, err := configx.FromEnvironment[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
