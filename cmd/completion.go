package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_sealnote() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt put get rm ls compact serve help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt|put)
            COMPREPLY=($(compgen -W "-m" -- "$cur"))
            ;;
        serve)
            COMPREPLY=($(compgen -W "-addr" -- "$cur"))
            ;;
        get|rm)
            # Complete with stored note IDs
            local ids
            ids=$(sealnote ls 2>/dev/null | grep -E '^  [0-9a-f-]{36} ' | awk '{print $1}')
            COMPREPLY=($(compgen -W "$ids" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _sealnote sealnote
`

const zshCompletion = `#compdef sealnote

_sealnote() {
    local -a commands
    commands=(
        'encrypt:Seal a message and print the envelope'
        'decrypt:Open an envelope'
        'put:Seal a message and store it as a note'
        'get:Open a stored note'
        'rm:Remove stored notes'
        'ls:List stored notes'
        'compact:Compact the note database'
        'serve:Run the HTTP API'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'sealnote commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt|put)
                    _arguments '-m[Message to seal]:message:'
                    ;;
                serve)
                    _arguments '-addr[Listen address]:address:'
                    ;;
                get|rm)
                    _arguments '*:note:_sealnote_notes'
                    ;;
                help)
                    _describe -t commands 'sealnote commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_sealnote_notes() {
    local -a ids
    ids=(${(f)"$(sealnote ls 2>/dev/null | grep -E '^  [0-9a-f-]{36} ' | awk '{print $1}')"})
    _describe -t notes 'stored notes' ids
}

_sealnote "$@"
`

const fishCompletion = `# sealnote fish completions

set -l commands encrypt decrypt put get rm ls compact serve help completion

complete -c sealnote -f

# Commands
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Seal a message'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Open an envelope'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a put -d 'Store a sealed note'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a get -d 'Open a stored note'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove stored notes'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List stored notes'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact note database'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a serve -d 'Run the HTTP API'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c sealnote -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# encrypt/put flags
complete -c sealnote -n "__fish_seen_subcommand_from encrypt put" -s m -d 'Message to seal'

# serve flags
complete -c sealnote -n "__fish_seen_subcommand_from serve" -o addr -d 'Listen address'

# note IDs
complete -c sealnote -n "__fish_seen_subcommand_from get rm" -a "(sealnote ls 2>/dev/null | string match -r '^  [0-9a-f-]{36}' | string trim)"

# help completions
complete -c sealnote -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c sealnote -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
