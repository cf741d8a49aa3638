package agent

import (
	"fmt"
	"strings"

	"github.com/jonathan/hiring-agent/internal/db"
	"github.com/jonathan/hiring-agent/internal/llm"
)

const minQuestionsPerSection = 5

// ensureMinimumQuestions tops up each interview question section to the
// minimum. The fallbacks are deterministic so a sparse LLM response still
// yields a usable interview plan.
func ensureMinimumQuestions(raw *llm.RawAnalysis, jd *db.JobDescription) {
	primarySkill := "the core technologies"
	if len(raw.Skills) > 0 {
		primarySkill = raw.Skills[0]
	} else if len(raw.TechStack) > 0 {
		primarySkill = raw.TechStack[0]
	}
	roleTitle := jd.Title
	if roleTitle == "" {
		roleTitle = "this role"
	}
	domain := jd.Domain
	if domain == "" {
		domain = "the domain"
	}

	raw.TechnicalQuestions = topUp(raw.TechnicalQuestions, "technical questions", roleTitle, []string{
		fmt.Sprintf("Walk through a recent project where you used %s. What were the hardest technical challenges?", primarySkill),
		fmt.Sprintf("How do you validate correctness and reliability in your %s work?", primarySkill),
		"Explain a performance issue you diagnosed and fixed in a system you built.",
		"Describe your approach to testing and code reviews in production systems.",
		"How do you handle backward compatibility and deployment risk in production?",
	})
	raw.SystemDesignQuestions = topUp(raw.SystemDesignQuestions, "system design questions", roleTitle, []string{
		fmt.Sprintf("Design a scalable service relevant to %s. Start with requirements and outline the architecture.", roleTitle),
		fmt.Sprintf("How would you design data storage and access patterns for %s workloads?", domain),
		"Discuss how you would handle failures, retries, and observability in a distributed system.",
		"How would you scale the system as traffic grows 10x?",
		"Describe tradeoffs between consistency and availability for a core feature in this role.",
	})
	raw.BehavioralQuestions = topUp(raw.BehavioralQuestions, "behavioral questions", roleTitle, []string{
		"Tell me about a time you disagreed with a teammate. How did you resolve it?",
		"Describe a situation where you had to learn a new technology quickly.",
		"Give an example of a project you led end-to-end and how you managed stakeholders.",
		"Tell me about a time you received critical feedback and what you changed.",
		"Describe a time you improved a process or team outcome.",
	})
	raw.CustomQuestions = topUp(raw.CustomQuestions, "custom questions", roleTitle, []string{
		fmt.Sprintf("What would your 30-60-90 day plan look like for %s?", roleTitle),
		"Which part of the job description are you most excited about and why?",
		"What risks do you see in this role and how would you mitigate them?",
		"How do you decide when to ask for help versus push through on your own?",
		"Tell us about a tradeoff you made in a recent project and why.",
	})
}

// topUp trims and de-blanks the existing questions, then appends fallbacks
// (skipping duplicates) until the section reaches the minimum.
func topUp(questions []string, section, roleTitle string, fallbacks []string) []string {
	cleaned := make([]string, 0, minQuestionsPerSection)
	for _, q := range questions {
		if s := strings.TrimSpace(q); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	for _, fb := range fallbacks {
		if len(cleaned) >= minQuestionsPerSection {
			break
		}
		if !contains(cleaned, fb) {
			cleaned = append(cleaned, fb)
		}
	}
	for len(cleaned) < minQuestionsPerSection {
		cleaned = append(cleaned, fmt.Sprintf("Additional %s question %d for %s.", section, len(cleaned)+1, roleTitle))
	}
	return cleaned
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
