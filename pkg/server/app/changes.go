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

package app

import (
	"time"

	pkgErrors "github.com/pkg/errors"

	"github.com/rosterhq/roster/pkg/server/database"
)

// Tombstone is the minimal projection of a deleted record returned by
// the change feed. It carries just enough for a client to remove its
// local copy and order the deletion against other changes.
type Tombstone struct {
	UUID         string `json:"id"`
	SyncVersion  int    `json:"sync_version"`
	LastModified int64  `json:"last_modified"`
}

// ChangeCount sizes one page of changes
type ChangeCount struct {
	Modified int `json:"modified"`
	Deleted  int `json:"deleted"`
	Total    int `json:"total"`
}

// Changes carries the two feeds of a page with their counts
type Changes struct {
	Modified []database.Worker `json:"modified"`
	Deleted  []Tombstone       `json:"deleted"`
	Count    ChangeCount       `json:"count"`
}

// ChangeFeed is one page of changes since a client's checkpoint
type ChangeFeed struct {
	ServerTime int64   `json:"serverTime"`
	Changes    Changes `json:"changes"`
	HasMore    bool    `json:"hasMore"`
}

// GetChangesSince returns the records modified or deleted at or after
// the given checkpoint, each feed capped at limit rows ordered by
// modification time. The checkpoint bound is inclusive so a client that
// stores the timestamp of its last-seen change never misses a
// same-millisecond write; it deduplicates the overlap by uuid and
// version.
func (a *App) GetChangesSince(since int64, limit int) (ChangeFeed, error) {
	feed := ChangeFeed{
		ServerTime: a.now(),
		Changes: Changes{
			Modified: []database.Worker{},
			Deleted:  []Tombstone{},
		},
	}

	err := a.DB.Where("deleted = ? AND last_modified >= ?", false, since).
		Order("last_modified ASC, uuid ASC").
		Limit(limit).
		Find(&feed.Changes.Modified).Error
	if err != nil {
		return ChangeFeed{}, pkgErrors.Wrap(err, "finding modified records")
	}

	deleted := []database.Worker{}
	err = a.DB.Select("uuid", "sync_version", "last_modified").
		Where("deleted = ? AND last_modified >= ?", true, since).
		Order("last_modified ASC, uuid ASC").
		Limit(limit).
		Find(&deleted).Error
	if err != nil {
		return ChangeFeed{}, pkgErrors.Wrap(err, "finding deleted records")
	}

	for _, w := range deleted {
		feed.Changes.Deleted = append(feed.Changes.Deleted, Tombstone{
			UUID:         w.UUID,
			SyncVersion:  w.SyncVersion,
			LastModified: w.LastModified,
		})
	}

	feed.Changes.Count = ChangeCount{
		Modified: len(feed.Changes.Modified),
		Deleted:  len(feed.Changes.Deleted),
		Total:    len(feed.Changes.Modified) + len(feed.Changes.Deleted),
	}

	// Either feed filling its page means there may be more rows beyond
	// it. The client advances its checkpoint and asks again.
	feed.HasMore = feed.Changes.Count.Modified >= limit || feed.Changes.Count.Deleted >= limit

	return feed, nil
}

// SyncStats summarizes the state of the record set and its recent
// write activity
type SyncStats struct {
	TotalRecords   int64 `json:"totalRecords"`
	ActiveRecords  int64 `json:"activeRecords"`
	DeletedRecords int64 `json:"deletedRecords"`
	ModifiedLast24 int64 `json:"modifiedLast24Hours"`
	ModifiedLast7d int64 `json:"modifiedLast7Days"`
	ServerTime     int64 `json:"serverTime"`
}

// GetSyncStats computes record totals and recent-activity counts
func (a *App) GetSyncStats() (SyncStats, error) {
	stats := SyncStats{ServerTime: a.now()}

	if err := a.DB.Model(&database.Worker{}).Count(&stats.TotalRecords).Error; err != nil {
		return SyncStats{}, pkgErrors.Wrap(err, "counting records")
	}
	if err := a.DB.Model(&database.Worker{}).Where("deleted = ?", true).Count(&stats.DeletedRecords).Error; err != nil {
		return SyncStats{}, pkgErrors.Wrap(err, "counting deleted records")
	}
	stats.ActiveRecords = stats.TotalRecords - stats.DeletedRecords

	now := a.Clock.Now()
	dayAgo := now.Add(-24 * time.Hour).UnixMilli()
	weekAgo := now.Add(-7 * 24 * time.Hour).UnixMilli()

	// Activity counts cover live records only. A tombstone's write shows
	// up in DeletedRecords, not in recent activity.
	if err := a.DB.Model(&database.Worker{}).Where("deleted = ? AND last_modified >= ?", false, dayAgo).Count(&stats.ModifiedLast24).Error; err != nil {
		return SyncStats{}, pkgErrors.Wrap(err, "counting last day activity")
	}
	if err := a.DB.Model(&database.Worker{}).Where("deleted = ? AND last_modified >= ?", false, weekAgo).Count(&stats.ModifiedLast7d).Error; err != nil {
		return SyncStats{}, pkgErrors.Wrap(err, "counting last week activity")
	}

	return stats, nil
}
