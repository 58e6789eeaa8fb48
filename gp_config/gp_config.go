package gp_config

const GinPort = "19123"

// ProjectName 日志文件名前缀
const ProjectName = "gp-miner"

// ResultDir 挖掘结果csv的输出目录
const ResultDir = "./result"

// SupportDigits 输出时支持度保留的小数位
const SupportDigits = 4
