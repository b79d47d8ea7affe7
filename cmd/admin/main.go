package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deokslife/portfolio-api/internal/client/portfolio"
	"github.com/deokslife/portfolio-api/internal/models"
)

var (
	version   string
	buildDate string
)

// prompt reads one line of input after printing label.
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptApp collects the fields of a new app from the user.
func promptApp(scanner *bufio.Scanner) *models.App {
	return &models.App{
		Title:           prompt(scanner, "Title: "),
		Description:     prompt(scanner, "Description: "),
		URL:             prompt(scanner, "URL: "),
		GithubURL:       prompt(scanner, "GitHub URL: "),
		ImageURL:        prompt(scanner, "Image URL: "),
		TechStack:       prompt(scanner, "Tech stack (comma separated): "),
		Category:        prompt(scanner, "Category (empty for default): "),
		DevelopmentDate: prompt(scanner, "Development date (YYYY-MM): "),
	}
}

// repl runs the interactive shell loop, accepting commands to manage the
// portfolio.
func repl(client *portfolio.Client, skills *portfolio.SkillsStore) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("portfolio> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, list, add, delete <id>, bulkdel <id> [id...], upload image|file <path>, skills, passwd, exit")
		case "list":
			apps, err := client.ListApps()
			if err != nil {
				fmt.Println("list failed:", err)
				continue
			}
			for _, app := range apps {
				date := app.DevelopmentDate
				if date == "" {
					date = "-"
				}
				fmt.Printf("%d\t%s\t%s\t%s\n", app.ID, date, app.Category, app.Title)
			}
		case "add":
			app := promptApp(scanner)
			password := prompt(scanner, "Admin password: ")
			created, err := client.CreateApp(app, password)
			if err != nil {
				fmt.Println("create failed:", err)
				continue
			}
			fmt.Printf("Created app %d\n", created.ID)
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			password := prompt(scanner, "Admin password: ")
			if err := client.DeleteApp(id, password); err != nil {
				fmt.Println("delete failed:", err)
				continue
			}
			fmt.Println("App deleted")
		case "bulkdel":
			if len(args) < 2 {
				fmt.Println("Usage: bulkdel <id> [id...]")
				continue
			}
			var ids []int64
			bad := false
			for _, a := range args[1:] {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					fmt.Println("invalid id:", a)
					bad = true
					break
				}
				ids = append(ids, id)
			}
			if bad {
				continue
			}
			password := prompt(scanner, "Admin password: ")
			failed := client.BulkDeleteApps(ids, password)
			fmt.Printf("Deleted %d of %d\n", len(ids)-len(failed), len(ids))
			for id, err := range failed {
				fmt.Printf("  %d: %v\n", id, err)
			}
		case "upload":
			if len(args) != 3 || (args[1] != "image" && args[1] != "file") {
				fmt.Println("Usage: upload image|file <path>")
				continue
			}
			if args[1] == "image" {
				url, err := client.UploadImage(args[2])
				if err != nil {
					fmt.Println("upload failed:", err)
					continue
				}
				fmt.Println("Uploaded:", url)
			} else {
				uploaded, err := client.UploadFile(args[2])
				if err != nil {
					fmt.Println("upload failed:", err)
					continue
				}
				fmt.Printf("Uploaded: %s (%d bytes)\n", uploaded.URL, uploaded.FileSize)
			}
		case "skills":
			current, err := skills.Load()
			if err != nil {
				fmt.Println("loading skills failed:", err)
				continue
			}
			fmt.Printf("Frontend: %s\nBackend: %s\nDatabase: %s\nTools: %s\n",
				strings.Join(current.Frontend, ", "), strings.Join(current.Backend, ", "),
				strings.Join(current.Database, ", "), strings.Join(current.Tools, ", "))
			next := models.Skills{
				Frontend: splitList(prompt(scanner, "Frontend (comma separated): ")),
				Backend:  splitList(prompt(scanner, "Backend (comma separated): ")),
				Database: splitList(prompt(scanner, "Database (comma separated): ")),
				Tools:    splitList(prompt(scanner, "Tools (comma separated): ")),
			}
			password := prompt(scanner, "Admin password: ")
			if err := skills.Save(next, password); err != nil {
				fmt.Println("saving skills failed:", err)
				continue
			}
			fmt.Println("Skills saved")
		case "passwd":
			current := prompt(scanner, "Current password: ")
			next := prompt(scanner, "New password (min 4 chars): ")
			if err := client.ChangePassword(current, next); err != nil {
				fmt.Println("password change failed:", err)
				continue
			}
			fmt.Println("Password updated")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// main parses command-line flags and starts the admin shell.
func main() {
	var (
		baseURL    string
		cachePath  string
		skillsPath string
		showVer    bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&cachePath, "cache", "", "path to the admin password cache file")
	flag.StringVar(&skillsPath, "skills", "", "path to the skills file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Portfolio Admin\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cache := portfolio.NewPasswordCache(cachePath)
	client := portfolio.New(baseURL, cache)
	skills := portfolio.NewSkillsStore(skillsPath, client)

	repl(client, skills)
}
