/* Copyright 2026 Roster Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package job provides scheduled background jobs
package job

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron"

	"github.com/rosterhq/roster/pkg/server/app"
	"github.com/rosterhq/roster/pkg/server/log"
)

func logSyncStats(a *app.App) {
	stats, err := a.GetSyncStats()
	if err != nil {
		log.ErrorWrap(err, "getting sync stats")
		return
	}

	log.WithFields(log.Fields{
		"total":   stats.TotalRecords,
		"active":  stats.ActiveRecords,
		"deleted": stats.DeletedRecords,
		"last24h": stats.ModifiedLast24,
		"last7d":  stats.ModifiedLast7d,
	}).Info("sync stats snapshot")
}

// Run starts the scheduled jobs in the background
func Run(a *app.App) (*cron.Cron, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating app")
	}

	c := cron.New()

	if err := c.AddFunc("@hourly", func() {
		logSyncStats(a)
	}); err != nil {
		return nil, errors.Wrap(err, "scheduling sync stats job")
	}

	c.Start()
	log.Info("started background jobs")

	return c, nil
}
