package assistant

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt 会话助手的系统提示词
const systemPrompt = `You are the workspace assistant of a team collaboration product.
You answer questions about the team's projects, tasks, discussions and files.
Ground every answer in the workspace context provided below. If the context does
not contain the answer, say so instead of guessing. Answer in the language the
question was asked in. Be concise and use plain text, not markdown tables.`

// BuildPrompt 把上下文快照渲染为模型输入
// 顺序固定：项目上下文 -> 跨项目汇总 -> 近期对话 -> 问题
func BuildPrompt(s *Snapshot) string {
	var b strings.Builder

	if s.Project != nil {
		writeProjectContext(&b, s.Project)
	}
	if len(s.CrossProject) > 0 {
		writeCrossProject(&b, s.CrossProject, s.UserID)
	}
	if len(s.RecentMessages) > 0 {
		b.WriteString("## Recent conversation\n")
		for _, m := range s.RecentMessages {
			sender := m.SenderID
			if m.FromAssistant() {
				sender = "assistant"
			}
			fmt.Fprintf(&b, "[%s] %s: %s\n", m.CreatedAt.Format("01-02 15:04"), sender, m.Body)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Question\n%s\n", s.Question)
	return b.String()
}

func writeProjectContext(b *strings.Builder, pc *ProjectContext) {
	fmt.Fprintf(b, "## Project: %s\n", pc.Project.Name)
	fmt.Fprintf(b, "Members: %d, open tasks: %d, urgent: %d, overdue: %d\n\n",
		len(pc.Project.MemberIDs), len(pc.OpenTasks), len(pc.UrgentTasks), len(pc.OverdueTasks))

	writeTaskList(b, "Open tasks", pc.OpenTasks)
	writeTaskList(b, "Overdue tasks", pc.OverdueTasks)

	an := pc.Analytics
	b.WriteString("### Analytics\n")
	fmt.Fprintf(b, "Completed this week: %d (previous week: %d)\n", an.CompletedThisWeek, an.CompletedLastWeek)
	if len(an.CompletionsByMember) > 0 {
		b.WriteString("Completions by member: ")
		first := true
		for member, count := range an.CompletionsByMember {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%d", member, count)
			first = false
		}
		b.WriteString("\n")
	}
	writeTaskList(b, "Stuck tasks (old and idle)", an.StuckTasks)
	writeTaskList(b, "Heavily discussed tasks", an.HighDiscussionTasks)

	if len(pc.Activities) > 0 {
		b.WriteString("### Recent activity\n")
		for _, a := range pc.Activities {
			fmt.Fprintf(b, "[%s] %s %s %s/%s", a.CreatedAt.Format("01-02"), a.ActorID, a.Action, a.TargetType, a.TargetID)
			if a.Detail != "" {
				fmt.Fprintf(b, " (%s)", a.Detail)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(pc.Comments) > 0 {
		b.WriteString("### Recent comments\n")
		for _, c := range pc.Comments {
			fmt.Fprintf(b, "[task %s] %s: %s\n", c.TaskID, c.AuthorID, c.Body)
		}
		b.WriteString("\n")
	}

	if len(pc.Attachments) > 0 {
		b.WriteString("### Recent files\n")
		for _, att := range pc.Attachments {
			fmt.Fprintf(b, "%s (%s, %d bytes, by %s)\n", att.Name, att.ContentType, att.Size, att.UploaderID)
		}
		b.WriteString("\n")
	}
}

func writeCrossProject(b *strings.Builder, summaries []ProjectSummary, userID string) {
	b.WriteString("## All visible projects\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "%s: %d tasks, %d done (%.0f%%), %d urgent, %d overdue, %d assigned to %s\n",
			s.Name, s.TotalTasks, s.DoneTasks, s.CompletionRatio*100,
			s.UrgentTasks, s.OverdueTasks, s.AssignedToUser, userID)
	}
	b.WriteString("\n")
}

func writeTaskList(b *strings.Builder, title string, tasks []TaskSummary) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n", title)
	for _, t := range tasks {
		fmt.Fprintf(b, "- [%s/%s] %s", t.Status, t.Priority, t.Title)
		if t.AssigneeID != "" {
			fmt.Fprintf(b, " (assignee: %s)", t.AssigneeID)
		}
		if t.DueDate != nil {
			fmt.Fprintf(b, " (due %s)", t.DueDate.Format(time.DateOnly))
		}
		if t.CommentCount > 0 {
			fmt.Fprintf(b, " (%d comments)", t.CommentCount)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
