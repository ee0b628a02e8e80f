package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/annel0/jenga/internal/game"
	"github.com/annel0/jenga/internal/tower"
)

const helpText = `Команды:
  add <value>              положить значение в первую свободную позицию
  put <slot> <value>       положить значение в позицию верхнего слоя
  pull <layer> <slot>      вынуть блок
  peek <layer> <slot>      посмотреть данные блока
  friction <layer> <slot>  узнать трение блока
  show                     нарисовать башню (сверху вниз)
  status                   высота, стабильность, попытки
  destroy                  уронить башню
  restart                  начать новую партию
  help                     эта справка
  quit                     выход
`

// REPL читает команды построчно и применяет их к сессии.
type REPL struct {
	session *game.Session
	out     io.Writer
}

func NewREPL(session *game.Session, out io.Writer) *REPL {
	return &REPL{session: session, out: out}
}

// Run обрабатывает ввод до EOF, команды quit или отмены контекста.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	r.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if !r.Exec(ctx, scanner.Text()) {
			return nil
		}
		r.prompt()
	}
	return scanner.Err()
}

func (r *REPL) prompt() {
	fmt.Fprint(r.out, "jenga> ")
}

// Exec выполняет одну команду. Возвращает false для quit.
func (r *REPL) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprint(r.out, helpText)
	case "add":
		if len(args) == 0 {
			r.usage("add <value>")
			break
		}
		if r.session.Add(ctx, strings.Join(args, " ")) {
			fmt.Fprintln(r.out, "ok")
		} else {
			// Add не проходит только на разрушенной башне.
			r.report(tower.ErrCollapsed)
		}
	case "put":
		slot, rest, ok := r.intArgs(args, 1, "put <slot> <value>")
		if !ok || len(rest) == 0 {
			if ok {
				r.usage("put <slot> <value>")
			}
			break
		}
		added, err := r.session.AddAt(ctx, strings.Join(rest, " "), slot[0])
		switch {
		case err != nil:
			r.report(err)
		case added:
			fmt.Fprintln(r.out, "ok")
		default:
			fmt.Fprintln(r.out, "slot is occupied")
		}
	case "pull":
		xy, _, ok := r.intArgs(args, 2, "pull <layer> <slot>")
		if !ok {
			break
		}
		data, _, err := r.session.Pull(ctx, xy[0], xy[1])
		if err != nil {
			r.report(err)
			break
		}
		fmt.Fprintf(r.out, "pulled %q\n", data)
	case "peek":
		xy, _, ok := r.intArgs(args, 2, "peek <layer> <slot>")
		if !ok {
			break
		}
		data, err := r.session.Peek(xy[0], xy[1])
		if err != nil {
			r.report(err)
			break
		}
		fmt.Fprintf(r.out, "%q\n", data)
	case "friction":
		xy, _, ok := r.intArgs(args, 2, "friction <layer> <slot>")
		if !ok {
			break
		}
		f, err := r.session.Friction(xy[0], xy[1])
		if err != nil {
			r.report(err)
			break
		}
		fmt.Fprintf(r.out, "friction %d\n", f)
	case "show":
		fmt.Fprint(r.out, renderTopDown(r.session.Status().Render))
	case "status":
		st := r.session.Status()
		fmt.Fprintf(r.out, "session %s: height=%d stability=%d cheat_chances=%d removed=%d collapsed=%v\n",
			st.SessionID, st.Height, st.Stability, st.CheatChances, st.RemovedBlocks, st.Collapsed)
	case "destroy":
		r.report(r.session.Destroy(ctx))
	case "restart":
		fmt.Fprintf(r.out, "new session %s\n", r.session.Restart(ctx))
	default:
		fmt.Fprintf(r.out, "unknown command %q, try help\n", cmd)
	}
	return true
}

// report печатает сообщение об ошибке с префиксом по Outcome.
func (r *REPL) report(err error) {
	prefix := ""
	switch game.Classify(err) {
	case game.OutcomeWarning:
		prefix = "WARNING: "
	case game.OutcomeGameOver:
		prefix = "GAME OVER: "
	}
	fmt.Fprintln(r.out, prefix+game.Message(err))
}

func (r *REPL) usage(u string) {
	fmt.Fprintf(r.out, "usage: %s\n", u)
}

// intArgs разбирает первые n аргументов как числа.
func (r *REPL) intArgs(args []string, n int, u string) ([]int, []string, bool) {
	if len(args) < n {
		r.usage(u)
		return nil, nil, false
	}
	vals := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			r.usage(u)
			return nil, nil, false
		}
		vals[i] = v
	}
	return vals, args[n:], true
}

// renderTopDown переворачивает рисунок башни: верхний слой первым.
func renderTopDown(render string) string {
	lines := strings.Split(strings.TrimSuffix(render, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return "(empty)\n"
	}
	var sb strings.Builder
	for i := len(lines) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%3d %s\n", i, lines[i])
	}
	return sb.String()
}
