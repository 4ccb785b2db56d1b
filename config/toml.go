package config

const ArgusConfigTemplate = `db_host = "{{ .DbHost }}"
db_port = {{ .DbPort }}
db_username = "{{ .DbUsername }}"
db_password = "{{ .DbPassword }}"
db_schema = "{{ .DbSchema }}"

server_port = {{ .ServerPort }}
bridge_url = "{{ .BridgeUrl }}"

[chains]{{ range $k, $v := .Chains }}
	[chains.{{ $k }}]
	chain = "{{ $k }}"
	chain_type = "{{ $v.ChainType }}"
	block_time_seconds = {{ $v.BlockTimeSeconds }}
	confirmations_required = {{ $v.ConfirmationsRequired }}
	rpc_url = "{{ $v.RpcUrl }}"
{{ end }}
`
