package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"wegetchat/domain"
	"wegetchat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type Config struct {
	StoreBackend     string `envconfig:"STORE_BACKEND" default:"file"`
	SnapshotFilepath string `envconfig:"SNAPSHOT_FILEPATH" default:"data/db.json"`
	BadgerFilepath   string `envconfig:"BADGER_FILEPATH" default:"data/badger"`
	Colours          bool   `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Error while reading config: ", err)
	}
	collection := flag.String("collection", "", "Only print this collection (users, conversations, messages, friendships, notifications)")
	flag.Parse()

	snapshot, err := loadSnapshot(config)
	if err != nil {
		log.Fatal("Error while loading snapshot: ", err)
	}
	printSnapshot(os.Stdout, snapshot, *collection, config.Colours)
}

// loadSnapshot never writes: a missing file or database yields an empty snapshot.
func loadSnapshot(config Config) (*domain.Snapshot, error) {
	switch config.StoreBackend {
	case "badger":
		if _, err := os.Stat(config.BadgerFilepath); os.IsNotExist(err) {
			return domain.NewSnapshot(), nil
		}
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithReadOnly(true).
			WithLogger(nil))
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return repositories.ReadBadgerSnapshot(db)
	default:
		if _, err := os.Stat(config.SnapshotFilepath); os.IsNotExist(err) {
			return domain.NewSnapshot(), nil
		}
		return repositories.ReadSnapshotFile(config.SnapshotFilepath)
	}
}

func printSnapshot(w io.Writer, s *domain.Snapshot, only string, colours bool) {
	section := func(name string, header []string, rows [][]string) {
		if only != "" && only != name {
			return
		}
		title := fmt.Sprintf("  ====== %s (%d) ======", name, len(rows))
		if colours {
			title = color.New(color.BgBlack, color.FgGreen).Render(title)
		}
		fmt.Fprintln(w, title)
		table := newTable(w, header)
		table.AppendBulk(rows)
		table.Render()
		fmt.Fprintln(w)
	}

	usernames := lo.SliceToMap(s.Users, func(u domain.User) (string, string) { return u.ID, u.Username })
	name := func(id string) string {
		if n, ok := usernames[id]; ok {
			return n
		}
		return shortID(id)
	}

	section("users", []string{"ID", "Username", "Status", "Picture", "Notifications", "Created"},
		lo.Map(s.Users, func(u domain.User, _ int) []string {
			return []string{shortID(u.ID), u.Username, u.StatusText, u.PfpURL,
				strconv.FormatBool(u.NotificationsEnabled), u.CreatedAt.Format("2006-01-02 15:04:05")}
		}))
	section("conversations", []string{"ID", "Participants", "Created"},
		lo.Map(s.Conversations, func(c domain.Conversation, _ int) []string {
			return []string{shortID(c.ID), strings.Join(lo.Map(c.Participants, func(id string, _ int) string {
				return name(id)
			}), " <-> "), c.CreatedAt.Format("2006-01-02 15:04:05")}
		}))
	section("messages", []string{"ID", "Conversation", "Sender", "Body", "Attachment", "Read by", "Created"},
		lo.Map(s.Messages, func(m domain.Message, _ int) []string {
			return []string{shortID(m.ID), shortID(m.ConversationID), name(m.SenderID), truncate(m.Body, 40),
				m.AttachmentName, strings.Join(lo.Map(m.ReadBy, func(id string, _ int) string { return name(id) }), ","),
				m.CreatedAt.Format("2006-01-02 15:04:05")}
		}))
	section("friendships", []string{"User", "Friend", "Created"},
		lo.Map(s.Friendships, func(f domain.Friendship, _ int) []string {
			return []string{name(f.UserID), name(f.FriendID), f.CreatedAt.Format("2006-01-02 15:04:05")}
		}))
	section("notifications", []string{"ID", "User", "Text", "Read", "Created"},
		lo.Map(s.Notifications, func(n domain.Notification, _ int) []string {
			return []string{shortID(n.ID), name(n.UserID), n.Text, strconv.FormatBool(n.Read),
				n.CreatedAt.Format("2006-01-02 15:04:05")}
		}))
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
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
	return table
}

// shortID keeps the first 8 characters of an id for readability
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
