package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Shell provides an interactive blog interface
type Shell struct {
	auth    *simpleblog.AuthService
	content *simpleblog.ContentService
	out     io.Writer
	user    string
}

// NewShell creates a new shell writing to out
func NewShell(auth *simpleblog.AuthService, content *simpleblog.ContentService, out io.Writer) *Shell {
	return &Shell{auth: auth, content: content, out: out}
}

// Run starts the interactive loop. It returns on exit, Ctrl+D or a
// terminal error.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     historyFilePath(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, "=== Simple Blog Shell ===")
	fmt.Fprintln(s.out, "Type 'help' for available commands, 'exit' to quit")
	fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Execute(ctx, line) {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		rl.SetPrompt(s.prompt())
	}
}

func (s *Shell) prompt() string {
	if s.user != "" {
		return s.user + "> "
	}
	return "blog> "
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blogshell_history")
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	command, args := parts[0], parts[1:]

	switch command {
	case "help", "h":
		s.showHelp()
	case "exit", "quit", "q":
		return true
	case "signup":
		s.handleSignup(ctx, args)
	case "login":
		s.handleLogin(ctx, args)
	case "whoami":
		s.handleWhoami(ctx)
	case "logout":
		s.handleLogout(ctx)
	case "posts", "ls":
		s.handlePosts(ctx, args)
	case "post", "get":
		s.handlePost(ctx, args)
	case "create":
		s.handleCreate(ctx, args)
	case "update":
		s.handleUpdate(ctx, args)
	case "delete", "rm":
		s.handleDelete(ctx, args)
	case "upload":
		s.handleUpload(ctx, args)
	case "rmfile":
		s.handleRemoveFile(ctx, args)
	case "preview":
		s.handlePreview(args)
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for available commands)\n", command)
	}
	return false
}

func (s *Shell) showHelp() {
	help := `
Available Commands:

  signup <email> <password> <name...>   Create an account and log in
  login <email> <password>              Log in
  whoami                                Show the current account
  logout                                Log out on every device

  posts [status[,status]|all]           List posts (default: active)
  post <slug>                           Show one post
  create <slug> <title...>              Create an active post owned by you
  update <slug> <field> <value...>      Update title, content, status or image
  delete <slug>                         Delete a post

  upload <path>                         Upload a file
  rmfile <file-id>                      Delete a file
  preview <file-id>                     Print the preview URL of a file

  help, h                               Show this help message
  exit, quit, q                         Exit the shell

Examples:
  signup ann@example.com secret123 Ann Lee
  create hello-world Hello World
  update hello-world status draft
  posts active,draft
`
	fmt.Fprintln(s.out, help)
}

func (s *Shell) usage(text string) {
	fmt.Fprintf(s.out, "Usage: %s\n", text)
}

func (s *Shell) handleSignup(ctx context.Context, args []string) {
	if len(args) < 3 {
		s.usage("signup <email> <password> <name...>")
		return
	}
	session, err := s.auth.CreateAccount(ctx, simpleblog.CreateAccountRequest{
		Email:    args[0],
		Password: args[1],
		Name:     strings.Join(args[2:], " "),
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error creating account: %v\n", err)
		return
	}
	if session == nil {
		fmt.Fprintln(s.out, "Account was not created")
		return
	}
	s.user = args[0]
	fmt.Fprintf(s.out, "Welcome! Logged in as %s (user %s)\n", args[0], session.UserID)
}

func (s *Shell) handleLogin(ctx context.Context, args []string) {
	if len(args) != 2 {
		s.usage("login <email> <password>")
		return
	}
	session, err := s.auth.Login(ctx, simpleblog.LoginRequest{Email: args[0], Password: args[1]})
	if err != nil {
		fmt.Fprintf(s.out, "Error logging in: %v\n", err)
		return
	}
	s.user = args[0]
	fmt.Fprintf(s.out, "Logged in as %s (user %s)\n", args[0], session.UserID)
}

func (s *Shell) handleWhoami(ctx context.Context) {
	user, err := s.auth.GetUser(ctx)
	if errors.Is(err, simpleblog.ErrNoSession) {
		fmt.Fprintln(s.out, "Not logged in")
		return
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error getting user: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s <%s> (user %s)\n", user.Name, user.Email, user.ID)
}

func (s *Shell) handleLogout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		fmt.Fprintf(s.out, "Error logging out: %v\n", err)
		return
	}
	s.user = ""
	fmt.Fprintln(s.out, "Logged out")
}

func (s *Shell) handlePosts(ctx context.Context, args []string) {
	var queries []simpleblog.Query
	if len(args) > 0 {
		if args[0] == "all" {
			queries = append(queries, simpleblog.Limit(100))
		} else {
			var values []any
			for _, status := range strings.Split(args[0], ",") {
				values = append(values, status)
			}
			queries = append(queries, simpleblog.Equal(simpleblog.AttrStatus, values...))
		}
	}

	list, ok := s.content.GetPost(ctx, queries...).Get()
	if !ok {
		fmt.Fprintln(s.out, "Error listing posts (see log)")
		return
	}
	if len(list.Documents) == 0 {
		fmt.Fprintln(s.out, "No posts found")
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tSTATUS\tAUTHOR")
	for _, post := range simpleblog.PostsFromList(list) {
		title := post.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", post.Slug, title, post.Status, post.UserID)
	}
	tw.Flush()
	fmt.Fprintf(s.out, "\nTotal: %d\n", list.Total)
}

func (s *Shell) handlePost(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("post <slug>")
		return
	}
	doc, ok := s.content.GetPostBySlug(ctx, args[0]).Get()
	if !ok {
		fmt.Fprintf(s.out, "Post %s not found\n", args[0])
		return
	}
	post := simpleblog.PostFromDocument(doc)
	fmt.Fprintf(s.out, "Slug:    %s\n", post.Slug)
	fmt.Fprintf(s.out, "Title:   %s\n", post.Title)
	fmt.Fprintf(s.out, "Status:  %s\n", post.Status)
	fmt.Fprintf(s.out, "Author:  %s\n", post.UserID)
	if post.FeaturedImage != "" {
		fmt.Fprintf(s.out, "Image:   %s\n", s.content.GetFilePreview(post.FeaturedImage))
	}
	fmt.Fprintf(s.out, "Created: %s\n", post.CreatedAt)
	fmt.Fprintf(s.out, "Updated: %s\n", post.UpdatedAt)
	if post.Content != "" {
		fmt.Fprintf(s.out, "\n%s\n", post.Content)
	}
}

func (s *Shell) handleCreate(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.usage("create <slug> <title...>")
		return
	}
	user, err := s.auth.GetUser(ctx)
	if err != nil {
		fmt.Fprintln(s.out, "Log in to create posts")
		return
	}
	doc, ok := s.content.CreatePost(ctx, simpleblog.CreatePostRequest{
		Slug:   args[0],
		Title:  strings.Join(args[1:], " "),
		Status: simpleblog.PostStatusActive,
		UserID: user.ID,
	}).Get()
	if !ok {
		fmt.Fprintln(s.out, "Error creating post (see log)")
		return
	}
	fmt.Fprintf(s.out, "Created post %s\n", doc.ID)
}

func (s *Shell) handleUpdate(ctx context.Context, args []string) {
	if len(args) < 3 {
		s.usage("update <slug> <title|content|status|image> <value...>")
		return
	}
	value := strings.Join(args[2:], " ")

	var req simpleblog.UpdatePostRequest
	switch args[1] {
	case "title":
		req.Title = &value
	case "content":
		req.Content = &value
	case "status":
		req.Status = simpleblog.StatusPtr(simpleblog.PostStatus(value))
	case "image":
		if value == "none" {
			value = ""
		}
		req.FeaturedImage = &value
	default:
		fmt.Fprintf(s.out, "Unknown field: %s\n", args[1])
		return
	}

	if _, ok := s.content.UpdatePost(ctx, args[0], req).Get(); !ok {
		fmt.Fprintln(s.out, "Error updating post (see log)")
		return
	}
	fmt.Fprintf(s.out, "Updated post %s\n", args[0])
}

func (s *Shell) handleDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("delete <slug>")
		return
	}
	if !s.content.DeletePost(ctx, args[0]) {
		fmt.Fprintln(s.out, "Error deleting post (see log)")
		return
	}
	fmt.Fprintf(s.out, "Deleted post %s\n", args[0])
}

func (s *Shell) handleUpload(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("upload <path>")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error opening file: %v\n", err)
		return
	}
	defer f.Close()

	file, ok := s.content.UploadFile(ctx, simpleblog.InputFile{
		Name:     filepath.Base(args[0]),
		MimeType: mime.TypeByExtension(filepath.Ext(args[0])),
		Reader:   f,
	}).Get()
	if !ok {
		fmt.Fprintln(s.out, "Error uploading file (see log)")
		return
	}
	fmt.Fprintf(s.out, "Uploaded %s as %s\n", file.Name, file.ID)
	fmt.Fprintf(s.out, "Preview: %s\n", s.content.GetFilePreview(file.ID))
}

func (s *Shell) handleRemoveFile(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("rmfile <file-id>")
		return
	}
	if !s.content.DeleteFile(ctx, args[0]) {
		fmt.Fprintln(s.out, "Error deleting file (see log)")
		return
	}
	fmt.Fprintf(s.out, "Deleted file %s\n", args[0])
}

func (s *Shell) handlePreview(args []string) {
	if len(args) != 1 {
		s.usage("preview <file-id>")
		return
	}
	fmt.Fprintln(s.out, s.content.GetFilePreview(args[0]))
}
