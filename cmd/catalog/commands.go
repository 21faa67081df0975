package main

import (
	"fmt"
	"strconv"
	"time"

	"catalog-go/internal/app"
	"catalog-go/internal/catalog"
	"catalog-go/internal/database/sqlc"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printJob(j *sqlc.Job) {
	fmt.Printf("%s  %-10s  %-10s  %3d%%  %d/%d\n",
		j.ID, j.Action, catalog.StatusOf(j), j.PercentageComplete, j.CompletedTaskCount, j.TaskCount)
	if j.ErrorsText != "" {
		fmt.Printf("  errors: %s\n", j.ErrorsText)
	}
}

// location command
var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage locations",
}

var locationAddCmd = &cobra.Command{
	Use:   "add [PATH]",
	Short: "Register a location in the library",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		name, _ := cmd.Flags().GetString("name")
		removable, _ := cmd.Flags().GetBool("removable")
		ejectable, _ := cmd.Flags().GetBool("ejectable")

		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		a, err := newApp(cmd.Context(), "AddLocation")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		loc, err := a.AddLocation(path, app.LocationOptions{Name: name, Removable: removable, Ejectable: ejectable})
		if err != nil {
			return fmt.Errorf("adding location: %w", err)
		}
		fmt.Printf("Added location #%d at %s\n", loc.ID, loc.Path.String)
		return nil
	},
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locations",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), "ListLocations")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		locs, err := a.ListLocations()
		if err != nil {
			return err
		}
		if len(locs) == 0 {
			fmt.Println("No locations.")
			return nil
		}
		for _, l := range locs {
			state := "offline"
			if l.IsOnline {
				state = "online"
			}
			fmt.Printf("#%d  %-15s  %-7s  %s\n", l.ID, l.Name.String, state, l.Path.String)
		}
		return nil
	},
}

var locationOnlineCmd = &cobra.Command{
	Use:   "online ID true|false [PATH]",
	Short: "Mark a location mounted or unmounted",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		online, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid online value %q", args[1])
		}
		var path string
		if len(args) == 3 {
			path = args[2]
		}

		a, err := newApp(cmd.Context(), "SetLocationOnline")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		return a.SetLocationOnline(id, online, path)
	},
}

var locationRefreshCmd = &cobra.Command{
	Use:   "refresh ID",
	Short: "Re-probe the capacity of a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "RefreshLocation")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		loc, err := a.RefreshLocation(id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d  capacity %d  available %d\n", loc.ID, loc.TotalCapacity.Int64, loc.AvailableCapacity.Int64)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan LOCATION_ID",
	Short: "Index the files of a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "Scan")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		job, summary, err := a.Scan(cmd.Context(), id)
		if job != nil {
			printJob(job)
		}
		if summary != nil {
			fmt.Printf("%d entries: %d new, %d updated, %d moved, %d removed\n",
				summary.Entries, summary.Inserted, summary.Updated, summary.Moved, summary.Removed)
			for _, e := range summary.Errors {
				fmt.Printf("  %s\n", e)
			}
		}
		return err
	},
}

// checksum command
var checksumCmd = &cobra.Command{
	Use:   "checksum LOCATION_ID",
	Short: "Hash the files of a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		tierName, _ := cmd.Flags().GetString("tier")
		rehash, _ := cmd.Flags().GetBool("rehash")
		tier, err := catalog.ParseChecksumTier(tierName)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "Checksum")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		job, summary, err := a.Checksum(cmd.Context(), id, tier, rehash)
		if job != nil {
			printJob(job)
		}
		if summary != nil {
			fmt.Printf("%d files, %d bytes hashed\n", summary.Files, summary.Hashed)
			for _, e := range summary.Errors {
				fmt.Printf("  %s\n", e)
			}
		}
		return err
	},
}

// files command
var filesCmd = &cobra.Command{
	Use:   "files LOCATION_ID [DIR_ID]",
	Short: "List indexed files",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		locationID, err := parseID(args[0])
		if err != nil {
			return err
		}
		var parentID int64
		if len(args) == 2 {
			if parentID, err = parseID(args[1]); err != nil {
				return err
			}
		}

		a, err := newApp(cmd.Context(), "ListFiles")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		files, err := a.ListFiles(locationID, parentID)
		if err != nil {
			return err
		}
		for _, f := range files {
			kind := " "
			if f.IsDir {
				kind = "d"
			}
			sum := f.FullChecksum.String
			if len(sum) > 12 {
				sum = sum[:12]
			}
			fmt.Printf("%s #%-6d  %12s  %-12s  %s\n", kind, f.ID, f.SizeInBytes, sum, f.Name)
		}
		return nil
	},
}

// tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		color, _ := cmd.Flags().GetString("color")
		goal, _ := cmd.Flags().GetInt64("goal")

		a, err := newApp(cmd.Context(), "CreateTag")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		tag, err := a.CreateTag(args[0], color, goal)
		if err != nil {
			return err
		}
		fmt.Printf("Created tag #%d %s\n", tag.ID, tag.Name)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), "ListTags")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		tags, err := a.ListTags()
		if err != nil {
			return err
		}
		for _, t := range tags {
			goal := "-"
			if t.RedundancyGoal.Valid {
				goal = strconv.FormatInt(t.RedundancyGoal.Int64, 10)
			}
			fmt.Printf("#%d  %-20s  goal %s\n", t.ID, t.Name, goal)
		}
		return nil
	},
}

var tagApplyCmd = &cobra.Command{
	Use:   "apply TAG_ID FILE_ID",
	Short: "Tag a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		recursive, _ := cmd.Flags().GetBool("recursive")
		tagID, err := parseID(args[0])
		if err != nil {
			return err
		}
		fileID, err := parseID(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "ApplyTag")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		n, err := a.ApplyTag(cmd.Context(), tagID, fileID, recursive)
		if err != nil {
			return err
		}
		fmt.Printf("Tagged %d file(s)\n", n)
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove TAG_ID FILE_ID",
	Short: "Untag a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		tagID, err := parseID(args[0])
		if err != nil {
			return err
		}
		fileID, err := parseID(args[1])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "RemoveTag")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		removed, err := a.RemoveTag(tagID, fileID)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("File was not tagged.")
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Library statistics",
}

func printStatistics(s *sqlc.LibraryStatistic) {
	fmt.Printf("%s  files %d  used %s  unique %s  capacity %s  free %s  db %s\n",
		s.DateCaptured.Format("2006-01-02 15:04:05"), s.TotalFileCount, s.TotalBytesUsed,
		s.TotalUniqueBytes, s.TotalBytesCapacity, s.TotalBytesFree, s.LibraryDbSize)
}

var statsCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record a statistics snapshot",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), "CaptureStatistics")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		stats, err := a.CaptureStatistics(cmd.Context())
		if err != nil {
			return err
		}
		printStatistics(stats)
		return nil
	},
}

var statsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded statistics",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "ListStatistics")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		stats, err := a.ListStatistics(limit)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No statistics recorded.")
		}
		for _, s := range stats {
			printStatistics(s)
		}
		return nil
	},
}

// jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and cancel jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		active, _ := cmd.Flags().GetBool("active")

		a, err := newApp(cmd.Context(), "ListJobs")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		jobs, err := a.ListJobs(active)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs.")
		}
		for _, j := range jobs {
			printJob(j)
		}
		return nil
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show JOB_ID",
	Short: "Show a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), "GetJob")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		job, err := a.GetJob(args[0])
		if err != nil {
			return err
		}
		printJob(job)
		fmt.Printf("  client %s  created %s\n", job.ClientID, job.DateCreated.Format(time.RFC3339))
		return nil
	},
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel JOB_ID",
	Short: "Cancel a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd.Context(), "CancelJob")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		job, err := a.CancelJob(args[0])
		if err != nil {
			return err
		}
		printJob(job)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "GetHistory")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-18s  %s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationListCmd)
	locationCmd.AddCommand(locationOnlineCmd)
	locationCmd.AddCommand(locationRefreshCmd)
	locationAddCmd.Flags().String("name", "", "Display name")
	locationAddCmd.Flags().Bool("removable", false, "Location is on removable media")
	locationAddCmd.Flags().Bool("ejectable", false, "Location can be ejected")

	checksumCmd.Flags().String("tier", "full", "Checksum tier: quick or full")
	checksumCmd.Flags().Bool("rehash", false, "Hash files that already have a checksum")

	tagCmd.AddCommand(tagCreateCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagApplyCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCreateCmd.Flags().String("color", "", "Display color")
	tagCreateCmd.Flags().Int64("goal", -1, "Redundancy goal (number of copies)")
	tagApplyCmd.Flags().BoolP("recursive", "r", false, "Tag a directory and everything below it")

	statsCmd.AddCommand(statsCaptureCmd)
	statsCmd.AddCommand(statsListCmd)
	statsListCmd.Flags().IntP("limit", "n", 10, "Maximum number of snapshots to show")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsCancelCmd)
	jobsListCmd.Flags().Bool("active", false, "Only unfinished jobs of every client")

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checksumCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(historyCmd)
}
