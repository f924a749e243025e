package cron

import log "log/slog"

// InitCron 注册任务并启动调度，打印每个任务的下一次执行时间
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()

	for _, entry := range mgr.engine.Entries() {
		log.Info("cron job scheduled", "entry_id", entry.ID, "next", entry.Next)
	}
	return nil
}
