package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Offline inspector for the chat store. Point it at a badger directory and
// it dumps users, conversations or messages as a table. Read-only by
// default so it can run next to a stopped server without touching data.
func main() {
	dbPath := flag.String("db", "./data", "Path to badger DB")
	// Default scans messages; index entries (msgid:, user:email:) are skipped.
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, conv:, user:id:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Who", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Index entries hold a pointer to the primary key, not a record.
			if strings.HasPrefix(rawKey, "msgid:") || strings.HasPrefix(rawKey, "user:email:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := toRow(rawKey, v)
				if err != nil {
					// Log the bad record and keep scanning instead of aborting.
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// Stored shapes, duplicated here so the inspector stays a standalone
// binary with no dependency on the server packages.
type storedMessage struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id"`
	SenderID       string   `json:"sender_id"`
	Content        string   `json:"content"`
	ReadBy         []string `json:"read_by"`
	At             int64    `json:"at"`
}

type storedConversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	IsGroup      bool      `json:"is_group"`
	GroupName    string    `json:"group_name"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type storedUser struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsOnline bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

func toRow(rawKey string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(rawKey, "msg:"):
		var m storedMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, err
		}
		detail := m.Content
		if len(detail) > 40 {
			detail = detail[:40] + "..."
		}
		return []string{
			rawKey, "MSG",
			time.Unix(0, m.At).UTC().Format("15:04:05"),
			shortID(m.ID), m.SenderID,
			fmt.Sprintf("%s (read by %d)", detail, len(m.ReadBy)),
		}, nil

	case strings.HasPrefix(rawKey, "conv:"):
		var c storedConversation
		if err := json.Unmarshal(value, &c); err != nil {
			return nil, err
		}
		kind := "PRIVATE"
		detail := strings.Join(c.Participants, ", ")
		if c.IsGroup {
			kind = "GROUP"
			detail = c.GroupName + ": " + detail
		}
		return []string{
			rawKey, kind,
			c.UpdatedAt.UTC().Format("15:04:05"),
			shortID(c.ID), fmt.Sprintf("%d members", len(c.Participants)),
			detail,
		}, nil

	case strings.HasPrefix(rawKey, "user:id:"):
		var u storedUser
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, err
		}
		status := "offline since " + u.LastSeen.UTC().Format("15:04:05")
		if u.IsOnline {
			status = "online"
		}
		return []string{rawKey, "USER", "", shortID(u.ID), u.Username, u.Email + " (" + status + ")"}, nil

	default:
		return []string{rawKey, "RAW", "", "", "", fmt.Sprintf("%d bytes", len(value))}, nil
	}
}

// shortID keeps the first 8 characters for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A dirty shutdown leaves the value log in need of truncation,
		// which read-only mode refuses to do. Open once in write mode to
		// repair, then reopen read-only.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
